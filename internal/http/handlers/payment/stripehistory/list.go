// Package stripehistory реализует HTTP-обработчик чтения истории
// платежей пользователя у биллинг-провайдера.
package stripehistory

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/worknowjob/worknow-api/internal/http/response"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/models"
	"github.com/worknowjob/worknow-api/internal/services/payment"
)

// Количество инвойсов по умолчанию.
const defaultLimit = 10

// Handler управляет HTTP-запросами на чтение истории Stripe.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики истории платежей провайдера.
type Service interface {
	StripeHistory(ctx context.Context, clerkUserID string, limit int64) ([]*models.StripePayment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary История платежей Stripe
// @Description Возвращает последние инвойсы пользователя у биллинг-провайдера.
// @Tags Payments
// @Produce json
// @Param clerk_user_id query string true "Идентификатор пользователя"
// @Param limit query int false "Количество инвойсов (по умолчанию 10)"
// @Success 200 {object} map[string]any "Список инвойсов"
// @Failure 400 {object} response.ErrorResponse "Не указан clerk_user_id"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения"
// @Router /payments/stripe [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.stripehistory"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	clerkUserID := r.URL.Query().Get("clerk_user_id")
	if clerkUserID == "" {
		log.Error("clerk_user_id is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("clerk_user_id is required"))
		return
	}

	limit := int64(defaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			log.Error("invalid limit", slog.String("limit", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("limit must be a positive number"))
			return
		}
		limit = parsed
	}

	history, err := h.service.StripeHistory(r.Context(), clerkUserID, limit)
	if err != nil {
		if errors.Is(err, payment.ErrUserNotFound) {
			log.Error("user not found", slog.String("clerk_user_id", clerkUserID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to read stripe history", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read payment history"))
		return
	}

	log.Info("stripe history listed", slog.Int("count", len(history)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payments": history,
	}))
}
