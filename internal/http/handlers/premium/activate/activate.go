// Package activate реализует HTTP-обработчик активации премиума
// по оплаченной checkout-сессии.
package activate

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

// Handler управляет HTTP-запросами на активацию премиума.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики активации премиума.
type Service interface {
	Activate(ctx context.Context, sessionID string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

type request struct {
	SessionID string `json:"session_id"`
}

// ServeHTTP godoc
// @Summary Активировать премиум
// @Description Проверяет оплату checkout-сессии и включает премиум-подписку.
// @Tags Premium
// @Accept json
// @Produce json
// @Param request body request true "Идентификатор checkout-сессии"
// @Success 200 {object} map[string]any "Результат активации"
// @Failure 400 {object} response.ErrorResponse "Сессия не указана или не оплачена"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка активации"
// @Router /premium/activate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.activate"
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

	if req.SessionID == "" {
		log.Error("session_id is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("session_id is required"))
		return
	}

	alreadyProcessed, err := h.service.Activate(r.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, premium.ErrNotPaid):
			log.Error("checkout session is not paid", slog.String("session_id", req.SessionID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("checkout session is not paid"))
		case errors.Is(err, premium.ErrUserNotFound):
			log.Error("user not found for session", slog.String("session_id", req.SessionID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to activate premium", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not activate premium"))
		}
		return
	}

	log.Info("premium activation handled",
		slog.String("session_id", req.SessionID),
		slog.Bool("already_processed", alreadyProcessed))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"already_processed": alreadyProcessed,
	}))
}
