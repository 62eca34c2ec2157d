package job_test

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worknowjob/worknow-api/internal/models"
	"github.com/worknowjob/worknow-api/internal/services/job"
)

type mockStorage struct {
	GetUserFunc   func(ctx context.Context, clerkUserID string) (*models.User, error)
	CreateJobFunc func(ctx context.Context, j models.Job) (int, error)
	GetJobFunc    func(ctx context.Context, id int) (*models.Job, error)
	ListJobsFunc  func(ctx context.Context, clerkUserID string, limit, offset int) ([]*models.Job, int, error)
	UpdateJobFunc func(ctx context.Context, j models.Job, id int, clerkUserID string) (int64, error)
	DeleteJobFunc func(ctx context.Context, id int, clerkUserID string) (int64, error)
	BoostJobFunc  func(ctx context.Context, id int, clerkUserID string) (int64, error)
}

func (m *mockStorage) GetUserByClerkID(ctx context.Context, clerkUserID string) (*models.User, error) {
	return m.GetUserFunc(ctx, clerkUserID)
}

func (m *mockStorage) CreateJob(ctx context.Context, j models.Job) (int, error) {
	return m.CreateJobFunc(ctx, j)
}

func (m *mockStorage) GetJob(ctx context.Context, id int) (*models.Job, error) {
	return m.GetJobFunc(ctx, id)
}

func (m *mockStorage) ListJobsByUser(ctx context.Context, clerkUserID string, limit, offset int) ([]*models.Job, int, error) {
	return m.ListJobsFunc(ctx, clerkUserID, limit, offset)
}

func (m *mockStorage) UpdateJob(ctx context.Context, j models.Job, id int, clerkUserID string) (int64, error) {
	return m.UpdateJobFunc(ctx, j, id, clerkUserID)
}

func (m *mockStorage) DeleteJob(ctx context.Context, id int, clerkUserID string) (int64, error) {
	return m.DeleteJobFunc(ctx, id, clerkUserID)
}

func (m *mockStorage) BoostJob(ctx context.Context, id int, clerkUserID string) (int64, error) {
	return m.BoostJobFunc(ctx, id, clerkUserID)
}

type mockCache struct {
	GetFunc              func(ctx context.Context, key string, result any) (bool, error)
	SetFunc              func(ctx context.Context, key string, value any, expiration time.Duration) error
	InvalidatePrefixFunc func(ctx context.Context, prefix string) error
}

func (m *mockCache) Get(ctx context.Context, key string, result any) (bool, error) {
	if m.GetFunc == nil {
		return false, nil
	}
	return m.GetFunc(ctx, key, result)
}

func (m *mockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}

func (m *mockCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	if m.InvalidatePrefixFunc == nil {
		return nil
	}
	return m.InvalidatePrefixFunc(ctx, prefix)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func dummyJob() models.DummyJob {
	return models.DummyJob{
		Title:       "Грузчик",
		Description: "Работа на складе",
		Salary:      "45",
		CityID:      "2",
		CategoryID:  "3",
		Phone:       "+972501234567",
		Shuttle:     true,
	}
}

func TestCreate(t *testing.T) {
	t.Run("success coerces numeric strings", func(t *testing.T) {
		invalidated := ""
		storage := &mockStorage{
			GetUserFunc: func(context.Context, string) (*models.User, error) {
				return &models.User{ID: "uuid-1", ClerkUserID: "user_1"}, nil
			},
			CreateJobFunc: func(_ context.Context, j models.Job) (int, error) {
				assert.Equal(t, 45, j.Salary)
				assert.Equal(t, 2, j.CityID)
				assert.Equal(t, 3, j.CategoryID)
				assert.Equal(t, "uuid-1", j.UserID)
				assert.Equal(t, models.JobStatusActive, j.Status)
				return 7, nil
			},
			GetJobFunc: func(_ context.Context, id int) (*models.Job, error) {
				require.Equal(t, 7, id)
				return &models.Job{ID: 7, Title: "Грузчик", CityName: "Хайфа", CategoryName: "Склад"}, nil
			},
		}
		cache := &mockCache{
			InvalidatePrefixFunc: func(_ context.Context, prefix string) error {
				invalidated = prefix
				return nil
			},
		}

		svc := job.New(storage, cache, makeLogger())

		created, err := svc.Create(context.Background(), "user_1", dummyJob())
		require.NoError(t, err)
		assert.Equal(t, 7, created.ID)
		assert.Equal(t, "Хайфа", created.CityName)
		assert.Equal(t, "jobs:user_1:", invalidated)
	})

	t.Run("non-numeric salary", func(t *testing.T) {
		storage := &mockStorage{
			GetUserFunc: func(context.Context, string) (*models.User, error) {
				t.Fatal("storage must not be touched on invalid input")
				return nil, nil
			},
		}
		svc := job.New(storage, &mockCache{}, makeLogger())

		req := dummyJob()
		req.Salary = "сорок пять"
		_, err := svc.Create(context.Background(), "user_1", req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid salary")
	})

	t.Run("unknown user", func(t *testing.T) {
		storage := &mockStorage{
			GetUserFunc: func(context.Context, string) (*models.User, error) {
				return nil, fmt.Errorf("storage.GetUserByClerkID: %w", sql.ErrNoRows)
			},
		}
		svc := job.New(storage, &mockCache{}, makeLogger())

		_, err := svc.Create(context.Background(), "user_missing", dummyJob())
		require.ErrorIs(t, err, job.ErrUserNotFound)
	})
}

func TestList(t *testing.T) {
	t.Run("cache miss queries storage and caches page", func(t *testing.T) {
		var cachedKey string
		storage := &mockStorage{
			ListJobsFunc: func(_ context.Context, clerkUserID string, limit, offset int) ([]*models.Job, int, error) {
				assert.Equal(t, "user_1", clerkUserID)
				assert.Equal(t, 5, limit)
				assert.Equal(t, 5, offset)
				return []*models.Job{{ID: 6}, {ID: 5}}, 12, nil
			},
		}
		cache := &mockCache{
			SetFunc: func(_ context.Context, key string, value any, _ time.Duration) error {
				cachedKey = key
				return nil
			},
		}

		svc := job.New(storage, cache, makeLogger())

		list, err := svc.List(context.Background(), "user_1", 2, 5)
		require.NoError(t, err)
		assert.Equal(t, 12, list.Total)
		assert.Equal(t, 3, list.TotalPages)
		assert.Equal(t, 2, list.CurrentPage)
		assert.Len(t, list.Jobs, 2)
		assert.Equal(t, "jobs:user_1:2:5", cachedKey)
	})

	t.Run("cache hit skips storage", func(t *testing.T) {
		storage := &mockStorage{
			ListJobsFunc: func(context.Context, string, int, int) ([]*models.Job, int, error) {
				t.Fatal("storage must not be queried on cache hit")
				return nil, 0, nil
			},
		}
		cache := &mockCache{
			GetFunc: func(_ context.Context, _ string, result any) (bool, error) {
				ptr, ok := result.(**models.JobList)
				require.True(t, ok)
				*ptr = &models.JobList{Total: 1, TotalPages: 1, CurrentPage: 1}
				return true, nil
			},
		}

		svc := job.New(storage, cache, makeLogger())

		list, err := svc.List(context.Background(), "user_1", 1, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, list.Total)
	})
}

func TestDelete(t *testing.T) {
	t.Run("foreign job", func(t *testing.T) {
		storage := &mockStorage{
			DeleteJobFunc: func(context.Context, int, string) (int64, error) {
				return 0, nil
			},
		}
		svc := job.New(storage, &mockCache{}, makeLogger())

		err := svc.Delete(context.Background(), "user_2", 7)
		require.ErrorIs(t, err, job.ErrJobNotFound)
	})

	t.Run("success invalidates cache", func(t *testing.T) {
		invalidated := false
		storage := &mockStorage{
			DeleteJobFunc: func(context.Context, int, string) (int64, error) {
				return 1, nil
			},
		}
		cache := &mockCache{
			InvalidatePrefixFunc: func(context.Context, string) error {
				invalidated = true
				return nil
			},
		}
		svc := job.New(storage, cache, makeLogger())

		require.NoError(t, svc.Delete(context.Background(), "user_1", 7))
		assert.True(t, invalidated)
	})
}

func TestBoost(t *testing.T) {
	now := time.Now()
	storage := &mockStorage{
		BoostJobFunc: func(_ context.Context, id int, clerkUserID string) (int64, error) {
			assert.Equal(t, 7, id)
			assert.Equal(t, "user_1", clerkUserID)
			return 1, nil
		},
		GetJobFunc: func(context.Context, int) (*models.Job, error) {
			return &models.Job{ID: 7, BoostedAt: &now}, nil
		},
	}
	svc := job.New(storage, &mockCache{}, makeLogger())

	boosted, err := svc.Boost(context.Background(), "user_1", 7)
	require.NoError(t, err)
	require.NotNil(t, boosted.BoostedAt)
}
