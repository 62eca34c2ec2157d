// Package list реализует HTTP-обработчик выдачи системных сообщений
// текущего пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/worknowjob/worknow-api/internal/http/middlewarectx"
	"github.com/worknowjob/worknow-api/internal/http/response"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/models"
)

// Handler управляет HTTP-запросами на выдачу сообщений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики системных сообщений.
type Service interface {
	Messages(ctx context.Context, clerkUserID string) ([]*models.Message, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Системные сообщения
// @Description Возвращает сообщения текущего пользователя, новые первыми.
// @Tags Messages
// @Produce json
// @Success 200 {object} map[string]any "Список сообщений"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения"
// @Router /messages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.message.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	clerkUserID, ok := r.Context().Value(middlewarectx.UserKey).(string)
	if !ok || clerkUserID == "" {
		log.Error("clerk_user_id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	messages, err := h.service.Messages(r.Context(), clerkUserID)
	if err != nil {
		log.Error("failed to list messages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list messages"))
		return
	}

	log.Info("messages listed", slog.Int("count", len(messages)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"messages": messages,
	}))
}
