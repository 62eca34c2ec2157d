// Package checkout реализует HTTP-обработчик создания checkout-сессии
// для покупки премиум-подписки.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/worknowjob/worknow-api/internal/http/response"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/services/premium"
)

// Handler управляет HTTP-запросами на создание checkout-сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики создания checkout-сессии.
type Service interface {
	CreateCheckoutSession(ctx context.Context, clerkUserID, priceID string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

type request struct {
	ClerkUserID string `json:"clerk_user_id"`
	PriceID     string `json:"price_id"`
}

// ServeHTTP godoc
// @Summary Создать checkout-сессию
// @Description Создает сессию оплаты премиум-подписки и возвращает redirect URL.
// @Tags Premium
// @Accept json
// @Produce json
// @Param request body request true "Пользователь и тариф"
// @Success 200 {object} map[string]any "URL страницы оплаты"
// @Failure 400 {object} response.ErrorResponse "Не указан clerk_user_id"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка создания сессии"
// @Router /premium/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.checkout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if req.ClerkUserID == "" {
		log.Error("clerk_user_id is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("clerk_user_id is required"))
		return
	}

	url, err := h.service.CreateCheckoutSession(r.Context(), req.ClerkUserID, req.PriceID)
	if err != nil {
		if errors.Is(err, premium.ErrUserNotFound) {
			log.Error("user not found", slog.String("clerk_user_id", req.ClerkUserID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to create checkout session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create checkout session"))
		return
	}

	log.Info("checkout session created", slog.String("clerk_user_id", req.ClerkUserID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"url": url,
	}))
}
