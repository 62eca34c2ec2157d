// Package list реализует HTTP-обработчик постраничной выдачи вакансий
// пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/worknowjob/worknow-api/internal/http/response"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/models"
)

// Параметры пагинации по умолчанию.
const (
	defaultPage  = 1
	defaultLimit = 5
)

// Handler управляет HTTP-запросами на выдачу вакансий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи вакансий.
type Service interface {
	List(ctx context.Context, clerkUserID string, page, limit int) (*models.JobList, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Вакансии пользователя
// @Description Возвращает страницу вакансий пользователя, поднятые — первыми.
// @Tags Jobs
// @Produce json
// @Param clerk_user_id path string true "Идентификатор пользователя"
// @Param page query int false "Номер страницы (по умолчанию 1)"
// @Param limit query int false "Размер страницы (по умолчанию 5)"
// @Success 200 {object} map[string]any "Страница вакансий"
// @Failure 400 {object} response.ErrorResponse "Не указан clerk_user_id"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения"
// @Router /users/{clerk_user_id}/jobs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.list"
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

	page := defaultPage
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			log.Error("invalid page", slog.String("page", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("page must be a positive number"))
			return
		}
		page = parsed
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			log.Error("invalid limit", slog.String("limit", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("limit must be a positive number"))
			return
		}
		limit = parsed
	}

	jobs, err := h.service.List(r.Context(), clerkUserID, page, limit)
	if err != nil {
		log.Error("failed to list jobs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list jobs"))
		return
	}

	log.Info("jobs listed",
		slog.String("clerk_user_id", clerkUserID),
		slog.Int("total", jobs.Total))
	render.JSON(w, r, response.OKWithData(jobs))
}
