// Package renewrenewal реализует HTTP-обработчик включения автопродления
// премиум-подписки.
package renewrenewal

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

// Handler управляет HTTP-запросами на включение автопродления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики включения автопродления.
type Service interface {
	RenewAutoRenewal(ctx context.Context, clerkUserID string) error
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
}

// ServeHTTP godoc
// @Summary Включить автопродление
// @Description Включает локальный флаг автопродления подписки.
// @Tags Premium
// @Accept json
// @Produce json
// @Param request body request true "Пользователь"
// @Success 200 {object} response.Response "Автопродление включено"
// @Failure 400 {object} response.ErrorResponse "Автопродление уже включено"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка включения"
// @Router /premium/auto-renewal/renew [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.renewrenewal"
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

	if err := h.service.RenewAutoRenewal(r.Context(), req.ClerkUserID); err != nil {
		switch {
		case errors.Is(err, premium.ErrUserNotFound):
			log.Error("user not found", slog.String("clerk_user_id", req.ClerkUserID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, premium.ErrAlreadyEnabled):
			log.Error("auto-renewal is already enabled", slog.String("clerk_user_id", req.ClerkUserID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("auto-renewal is already enabled"))
		default:
			log.Error("failed to renew auto-renewal", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not renew auto-renewal"))
		}
		return
	}

	log.Info("auto-renewal enabled", slog.String("clerk_user_id", req.ClerkUserID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Автопродление подписки включено.",
	}))
}
