// Package boost реализует HTTP-обработчик поднятия вакансии в выдаче.
package boost

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/worknowjob/worknow-api/internal/http/middlewarectx"
	"github.com/worknowjob/worknow-api/internal/http/response"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/models"
	"github.com/worknowjob/worknow-api/internal/services/job"
)

// Handler управляет HTTP-запросами на поднятие вакансий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики поднятия вакансии.
type Service interface {
	Boost(ctx context.Context, clerkUserID string, id int) (*models.Job, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Поднять вакансию
// @Description Поднимает вакансию текущего пользователя в топ выдачи.
// @Tags Jobs
// @Produce json
// @Param id path int true "ID вакансии"
// @Success 200 {object} map[string]any "Поднятая вакансия"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Вакансия не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка поднятия"
// @Router /jobs/{id}/boost [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.boost"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid job id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid job id"))
		return
	}

	clerkUserID, ok := r.Context().Value(middlewarectx.UserKey).(string)
	if !ok || clerkUserID == "" {
		log.Error("clerk_user_id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	boosted, err := h.service.Boost(r.Context(), clerkUserID, id)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			log.Error("job not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("job not found"))
			return
		}
		log.Error("failed to boost job", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not boost job"))
		return
	}

	log.Info("job boosted", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"job": boosted,
	}))
}
