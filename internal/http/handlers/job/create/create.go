// Package create реализует HTTP-обработчик создания вакансий.
//
// Handler принимает JSON-запрос с данными вакансии, валидирует их, извлекает
// пользователя из контекста, вызывает бизнес-логику и возвращает созданную
// вакансию вместе с названиями города и категории.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/worknowjob/worknow-api/internal/http/middlewarectx"
	"github.com/worknowjob/worknow-api/internal/http/response"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/models"
	"github.com/worknowjob/worknow-api/internal/services/job"
)

// Handler управляет HTTP-запросами на создание вакансий.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания вакансии.
type Service interface {
	Create(ctx context.Context, clerkUserID string, req models.DummyJob) (*models.Job, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать вакансию
// @Description Создает вакансию текущего пользователя со статусом ACTIVE.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body models.DummyJob true "Данные вакансии"
// @Success 200 {object} map[string]any "Созданная вакансия"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка создания"
// @Router /jobs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyJob
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	clerkUserID, ok := r.Context().Value(middlewarectx.UserKey).(string)
	if !ok || clerkUserID == "" {
		log.Error("clerk_user_id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	created, err := h.service.Create(r.Context(), clerkUserID, req)
	if err != nil {
		if errors.Is(err, job.ErrUserNotFound) {
			log.Error("user not found", slog.String("clerk_user_id", clerkUserID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to create job", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create job"))
		return
	}

	log.Info("job created", slog.Int("id", created.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"job": created,
	}))
}
