package read_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worknowjob/worknow-api/internal/http/handlers/job/read"
	"github.com/worknowjob/worknow-api/internal/models"
	"github.com/worknowjob/worknow-api/internal/services/job"
)

type mockService struct {
	GetFunc func(ctx context.Context, id int) (*models.Job, error)
}

func (m *mockService) Get(ctx context.Context, id int) (*models.Job, error) {
	return m.GetFunc(ctx, id)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func newRouter(service read.Service) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/jobs/{id}", read.New(makeLogger(), service).ServeHTTP)
	return r
}

func TestReadHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockService{
			GetFunc: func(_ context.Context, id int) (*models.Job, error) {
				require.Equal(t, 7, id)
				return &models.Job{ID: 7, Title: "Грузчик", CityName: "Хайфа"}, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/jobs/7", nil)
		w := httptest.NewRecorder()
		newRouter(service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Грузчик")
	})

	t.Run("invalid id", func(t *testing.T) {
		service := &mockService{
			GetFunc: func(context.Context, int) (*models.Job, error) {
				t.Fatal("service must not be called with invalid id")
				return nil, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/jobs/abc", nil)
		w := httptest.NewRecorder()
		newRouter(service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid job id")
	})

	t.Run("not found", func(t *testing.T) {
		service := &mockService{
			GetFunc: func(context.Context, int) (*models.Job, error) {
				return nil, job.ErrJobNotFound
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/jobs/999", nil)
		w := httptest.NewRecorder()
		newRouter(service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
