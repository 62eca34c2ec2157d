package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/worknowjob/worknow-api/internal/models"
)

const jobColumns = `j.id, j.title, j.description, j.salary, j.phone,
	j.city_id, c.name, j.category_id, cat.name, j.user_id, u.clerk_user_id,
	j.status, j.image_url, j.shuttle, j.meals, j.boosted_at, j.created_at`

func scanJob(row interface{ Scan(...any) error }) (*models.Job, error) {
	j := &models.Job{}
	var imageURL sql.NullString
	var boostedAt sql.NullTime
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Salary, &j.Phone,
		&j.CityID, &j.CityName, &j.CategoryID, &j.CategoryName, &j.UserID, &j.ClerkUserID,
		&j.Status, &imageURL, &j.Shuttle, &j.Meals, &boostedAt, &j.CreatedAt); err != nil {
		return nil, err
	}
	if imageURL.Valid {
		j.ImageURL = &imageURL.String
	}
	if boostedAt.Valid {
		j.BoostedAt = &boostedAt.Time
	}
	return j, nil
}

// CreateJob сохраняет новую вакансию и возвращает её ID.
func (s *Storage) CreateJob(ctx context.Context, job models.Job) (int, error) {
	const op = "storage.CreateJob"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO jobs (title, description, salary, phone, city_id,
			      category_id, user_id, status, image_url, shuttle, meals)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id;`
	var imageURL *string
	if job.ImageURL != nil && *job.ImageURL != "" {
		imageURL = job.ImageURL
	}
	if err := s.DB.QueryRowContext(ctx, query,
		job.Title, job.Description, job.Salary, job.Phone, job.CityID,
		job.CategoryID, job.UserID, job.Status, imageURL, job.Shuttle,
		job.Meals).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetJob возвращает вакансию по ID вместе с названиями города и категории.
func (s *Storage) GetJob(ctx context.Context, id int) (*models.Job, error) {
	const op = "storage.GetJob"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + jobColumns + `
			  FROM jobs j
			  JOIN cities c ON c.id = j.city_id
			  JOIN categories cat ON cat.id = j.category_id
			  JOIN users u ON u.id = j.user_id
			  WHERE j.id = $1`
	job, err := scanJob(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return job, nil
}

// ListJobsByUser возвращает страницу вакансий пользователя и общее количество.
// Поднятые (boosted) вакансии идут первыми, далее по дате создания.
func (s *Storage) ListJobsByUser(ctx context.Context, clerkUserID string, limit, offset int) ([]*models.Job, int, error) {
	const op = "storage.ListJobsByUser"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	countQuery := `SELECT COUNT(*)
			  FROM jobs j
			  JOIN users u ON u.id = j.user_id
			  WHERE u.clerk_user_id = $1`
	if err := s.DB.QueryRowContext(ctx, countQuery, clerkUserID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + jobColumns + `
			  FROM jobs j
			  JOIN cities c ON c.id = j.city_id
			  JOIN categories cat ON cat.id = j.category_id
			  JOIN users u ON u.id = j.user_id
			  WHERE u.clerk_user_id = $1
			  ORDER BY j.boosted_at DESC NULLS LAST, j.created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, clerkUserID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, job)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// DeleteJob удаляет вакансию, если она принадлежит пользователю.
// Возвращает количество удалённых записей.
func (s *Storage) DeleteJob(ctx context.Context, id int, clerkUserID string) (int64, error) {
	const op = "storage.DeleteJob"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM jobs
			  WHERE id = $1
			    AND user_id = (SELECT id FROM users WHERE clerk_user_id = $2)`
	res, err := s.DB.ExecContext(ctx, query, id, clerkUserID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// BoostJob поднимает вакансию пользователя в выдаче.
func (s *Storage) BoostJob(ctx context.Context, id int, clerkUserID string) (int64, error) {
	const op = "storage.BoostJob"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE jobs
			  SET boosted_at = NOW()
			  WHERE id = $1
			    AND user_id = (SELECT id FROM users WHERE clerk_user_id = $2)`
	res, err := s.DB.ExecContext(ctx, query, id, clerkUserID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateJob обновляет поля вакансии, если она принадлежит пользователю.
func (s *Storage) UpdateJob(ctx context.Context, job models.Job, id int, clerkUserID string) (int64, error) {
	const op = "storage.UpdateJob"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE jobs
			  SET title = $3, description = $4, salary = $5, phone = $6,
			      city_id = $7, category_id = $8, shuttle = $9, meals = $10,
			      image_url = $11
			  WHERE id = $1
			    AND user_id = (SELECT id FROM users WHERE clerk_user_id = $2)`
	var imageURL *string
	if job.ImageURL != nil && *job.ImageURL != "" {
		imageURL = job.ImageURL
	}
	res, err := s.DB.ExecContext(ctx, query, id, clerkUserID,
		job.Title, job.Description, job.Salary, job.Phone,
		job.CityID, job.CategoryID, job.Shuttle, job.Meals, imageURL)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
