// Package jsonld реализует HTTP-обработчик выдачи JSON-LD разметки
// schema.org/JobPosting для вакансии.
package jsonld

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/worknowjob/worknow-api/internal/http/response"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/models"
	"github.com/worknowjob/worknow-api/internal/seo"
	"github.com/worknowjob/worknow-api/internal/services/job"
)

// Handler управляет HTTP-запросами на выдачу JSON-LD разметки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения вакансии.
type Service interface {
	Get(ctx context.Context, id int) (*models.Job, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary JSON-LD вакансии
// @Description Возвращает разметку schema.org/JobPosting для страницы вакансии.
// @Tags Jobs
// @Produce json
// @Param id path int true "ID вакансии"
// @Success 200 {object} map[string]any "Разметка JobPosting"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Вакансия не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения"
// @Router /jobs/{id}/jsonld [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.jsonld"
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

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			log.Error("job not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("job not found"))
			return
		}
		log.Error("failed to read job", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read job"))
		return
	}

	render.JSON(w, r, seo.JobPosting(found))
}
