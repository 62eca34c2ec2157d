// Package historylist реализует HTTP-обработчик чтения локального
// журнала платежей пользователя.
package historylist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/worknowjob/worknow-api/internal/http/response"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/models"
)

// Handler управляет HTTP-запросами на чтение журнала платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики журнала платежей.
type Service interface {
	List(ctx context.Context, clerkUserID string) ([]*models.Payment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Журнал платежей
// @Description Возвращает платежи пользователя по дате в обратном порядке.
// @Tags Payments
// @Produce json
// @Param clerk_user_id query string true "Идентификатор пользователя"
// @Success 200 {object} map[string]any "Список платежей"
// @Failure 400 {object} response.ErrorResponse "Не указан clerk_user_id"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения"
// @Router /payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.historylist"
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

	payments, err := h.service.List(r.Context(), clerkUserID)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list payments"))
		return
	}

	log.Info("payments listed", slog.Int("count", len(payments)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payments": payments,
	}))
}
