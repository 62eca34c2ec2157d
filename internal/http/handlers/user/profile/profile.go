// Package profile реализует HTTP-обработчик выдачи профиля пользователя.
//
// Маршрут доступен без аутентификации: чужой профиль отдаётся из локальных
// данных, собственный — дополняется свежими данными identity-провайдера.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/worknowjob/worknow-api/internal/http/middlewarectx"
	"github.com/worknowjob/worknow-api/internal/http/response"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/models"
	"github.com/worknowjob/worknow-api/internal/services/profile"
)

// Handler управляет HTTP-запросами на выдачу профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики профиля.
type Service interface {
	Get(ctx context.Context, clerkUserID string, own bool) (*models.Profile, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Возвращает профиль: для владельца — с данными identity-провайдера.
// @Tags Users
// @Produce json
// @Param clerk_user_id path string true "Идентификатор пользователя"
// @Success 200 {object} map[string]any "Профиль"
// @Failure 400 {object} response.ErrorResponse "Не указан clerk_user_id"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения"
// @Router /users/{clerk_user_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	clerkUserID := chi.URLParam(r, "clerk_user_id")
	if clerkUserID == "" {
		log.Error("clerk_user_id is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("clerk_user_id is required"))
		return
	}

	requester, _ := r.Context().Value(middlewarectx.UserKey).(string)
	own := requester != "" && requester == clerkUserID

	p, err := h.service.Get(r.Context(), clerkUserID, own)
	if err != nil {
		if errors.Is(err, profile.ErrUserNotFound) {
			log.Error("user not found", slog.String("clerk_user_id", clerkUserID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to read profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read profile"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"profile": p,
	}))
}
