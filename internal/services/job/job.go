// Package job содержит бизнес-логику вакансий: создание с приведением типов,
// постраничную выдачу с кешем, обновление, удаление и поднятие в топ.
package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/models"
)

// Время жизни закешированной страницы выдачи.
const listCacheTTL = 5 * time.Minute

var (
	// ErrUserNotFound возвращается, когда автор вакансии не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrJobNotFound возвращается, когда вакансия не найдена или не принадлежит пользователю.
	ErrJobNotFound = errors.New("job not found")
)

// Storage определяет методы хранилища, нужные сервису вакансий.
type Storage interface {
	GetUserByClerkID(ctx context.Context, clerkUserID string) (*models.User, error)
	CreateJob(ctx context.Context, job models.Job) (int, error)
	GetJob(ctx context.Context, id int) (*models.Job, error)
	ListJobsByUser(ctx context.Context, clerkUserID string, limit, offset int) ([]*models.Job, int, error)
	UpdateJob(ctx context.Context, job models.Job, id int, clerkUserID string) (int64, error)
	DeleteJob(ctx context.Context, id int, clerkUserID string) (int64, error)
	BoostJob(ctx context.Context, id int, clerkUserID string) (int64, error)
}

// Cache описывает методы кеширования страниц выдачи.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// Service реализует бизнес-логику вакансий.
type Service struct {
	storage Storage
	cache   Cache
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(storage Storage, cache Cache, log *slog.Logger) *Service {
	return &Service{storage: storage, cache: cache, log: log}
}

// Create создаёт вакансию со статусом ACTIVE и возвращает её вместе
// с названиями города и категории.
func (s *Service) Create(ctx context.Context, clerkUserID string, req models.DummyJob) (*models.Job, error) {
	const op = "job.Create"

	salary, err := strconv.Atoi(req.Salary)
	if err != nil {
		return nil, fmt.Errorf("invalid salary: %w", err)
	}
	cityID, err := strconv.Atoi(req.CityID)
	if err != nil {
		return nil, fmt.Errorf("invalid city_id: %w", err)
	}
	categoryID, err := strconv.Atoi(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category_id: %w", err)
	}

	user, err := s.storage.GetUserByClerkID(ctx, clerkUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	job := models.Job{
		Title:       req.Title,
		Description: req.Description,
		Salary:      salary,
		Phone:       req.Phone,
		CityID:      cityID,
		CategoryID:  categoryID,
		UserID:      user.ID,
		Status:      models.JobStatusActive,
		Shuttle:     req.Shuttle,
		Meals:       req.Meals,
	}
	if req.ImageURL != "" {
		job.ImageURL = &req.ImageURL
	}

	id, err := s.storage.CreateJob(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("job created", slog.Int("id", id), slog.String("clerk_user_id", clerkUserID))

	s.invalidateUserPages(ctx, clerkUserID)

	created, err := s.storage.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Get возвращает вакансию по ID.
func (s *Service) Get(ctx context.Context, id int) (*models.Job, error) {
	const op = "job.Get"

	job, err := s.storage.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return job, nil
}

// List возвращает страницу вакансий пользователя, используя кеш.
func (s *Service) List(ctx context.Context, clerkUserID string, page, limit int) (*models.JobList, error) {
	const op = "job.List"

	cacheKey := fmt.Sprintf("jobs:%s:%d:%d", clerkUserID, page, limit)
	var cached *models.JobList
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read jobs page from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	offset := (page - 1) * limit
	jobs, total, err := s.storage.ListJobsByUser(ctx, clerkUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	totalPages := (total + limit - 1) / limit
	result := &models.JobList{
		Jobs:        jobs,
		TotalPages:  totalPages,
		CurrentPage: page,
		Total:       total,
	}

	if err := s.cache.Set(ctx, cacheKey, result, listCacheTTL); err != nil {
		s.log.Warn("failed to cache jobs page", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Update обновляет вакансию пользователя и возвращает её новое состояние.
func (s *Service) Update(ctx context.Context, clerkUserID string, id int, req models.DummyJob) (*models.Job, error) {
	const op = "job.Update"

	salary, err := strconv.Atoi(req.Salary)
	if err != nil {
		return nil, fmt.Errorf("invalid salary: %w", err)
	}
	cityID, err := strconv.Atoi(req.CityID)
	if err != nil {
		return nil, fmt.Errorf("invalid city_id: %w", err)
	}
	categoryID, err := strconv.Atoi(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category_id: %w", err)
	}

	job := models.Job{
		Title:       req.Title,
		Description: req.Description,
		Salary:      salary,
		Phone:       req.Phone,
		CityID:      cityID,
		CategoryID:  categoryID,
		Shuttle:     req.Shuttle,
		Meals:       req.Meals,
	}
	if req.ImageURL != "" {
		job.ImageURL = &req.ImageURL
	}

	count, err := s.storage.UpdateJob(ctx, job, id, clerkUserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, ErrJobNotFound
	}

	s.invalidateUserPages(ctx, clerkUserID)

	updated, err := s.storage.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete удаляет вакансию пользователя.
func (s *Service) Delete(ctx context.Context, clerkUserID string, id int) error {
	const op = "job.Delete"

	count, err := s.storage.DeleteJob(ctx, id, clerkUserID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return ErrJobNotFound
	}

	s.log.Info("job deleted", slog.Int("id", id), slog.String("clerk_user_id", clerkUserID))
	s.invalidateUserPages(ctx, clerkUserID)
	return nil
}

// Boost поднимает вакансию пользователя в выдаче.
func (s *Service) Boost(ctx context.Context, clerkUserID string, id int) (*models.Job, error) {
	const op = "job.Boost"

	count, err := s.storage.BoostJob(ctx, id, clerkUserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, ErrJobNotFound
	}

	s.log.Info("job boosted", slog.Int("id", id), slog.String("clerk_user_id", clerkUserID))
	s.invalidateUserPages(ctx, clerkUserID)

	boosted, err := s.storage.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return boosted, nil
}

// invalidateUserPages сбрасывает все закешированные страницы выдачи пользователя.
func (s *Service) invalidateUserPages(ctx context.Context, clerkUserID string) {
	prefix := fmt.Sprintf("jobs:%s:", clerkUserID)
	if err := s.cache.InvalidatePrefix(ctx, prefix); err != nil {
		s.log.Warn("failed to invalidate jobs cache", slog.String("prefix", prefix), sl.Err(err))
	}
}
