package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worknowjob/worknow-api/internal/models"
)

func TestStorage_CreateAndGetJob(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "user_1", "test@example.com")

	id, err := storage.CreateJob(context.Background(), models.Job{
		Title:       "Грузчик",
		Description: "Работа на складе",
		Salary:      45,
		Phone:       "+972501234567",
		CityID:      2,
		CategoryID:  2,
		UserID:      userID,
		Status:      models.JobStatusActive,
	})
	require.NoError(t, err)
	require.Equal(t, 1, id)

	got, err := storage.GetJob(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "Грузчик", got.Title)
	assert.Equal(t, 45, got.Salary)
	assert.Equal(t, "Хайфа", got.CityName)
	assert.Equal(t, "Склад", got.CategoryName)
	assert.Equal(t, "user_1", got.ClerkUserID)
	assert.Equal(t, models.JobStatusActive, got.Status)
}

func TestStorage_GetJob_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetJob(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStorage_ListJobsByUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "user_1", "test@example.com")
	otherID := factory.CreateUser(t, "user_2", "other@example.com")

	factory.CreateJob(t, userID, "Уборщик", 40, 1, 1)
	factory.CreateJob(t, otherID, "Чужая вакансия", 50, 1, 1)
	boostedID := factory.CreateBoostedJob(t, userID, "Поднятая вакансия", time.Now())

	jobs, total, err := storage.ListJobsByUser(context.Background(), "user_1", 10, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, jobs, 2)
	// Поднятая вакансия идёт первой
	assert.Equal(t, boostedID, jobs[0].ID)
	assert.Equal(t, "Уборщик", jobs[1].Title)
}

func TestStorage_DeleteJob_OwnershipCheck(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "user_1", "test@example.com")
	factory.CreateUser(t, "user_2", "other@example.com")
	jobID := factory.CreateJob(t, userID, "Грузчик", 45, 1, 1)

	count, err := storage.DeleteJob(context.Background(), jobID, "user_2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = storage.DeleteJob(context.Background(), jobID, "user_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStorage_UpdatePremium(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "user_1", "test@example.com")

	endsAt := time.Now().AddDate(0, 0, 30).Truncate(time.Second)
	subID := "sub_1"
	err := storage.UpdatePremium(context.Background(), "user_1", endsAt, true, &subID, false)
	require.NoError(t, err)

	user, err := storage.GetUserByClerkID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.True(t, user.IsPremium)
	assert.True(t, user.IsAutoRenewal)
	require.NotNil(t, user.StripeSubscriptionID)
	assert.Equal(t, "sub_1", *user.StripeSubscriptionID)
	require.NotNil(t, user.PremiumEndsAt)
	assert.WithinDuration(t, endsAt, *user.PremiumEndsAt, time.Second)
}

func TestStorage_UpdatePremium_UnknownUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	err := storage.UpdatePremium(context.Background(), "nonexistent", time.Now(), false, nil, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStorage_SetAutoRenewal(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreatePremiumUser(t, "user_1", "test@example.com", "sub_1", time.Now().AddDate(0, 0, 30))

	err := storage.SetAutoRenewal(context.Background(), "user_1", false)
	require.NoError(t, err)

	user, err := storage.GetUserByClerkID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.False(t, user.IsAutoRenewal)
}

func TestStorage_ListPayments_OrderedByDateDesc(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "user_1", "test@example.com")
	factory.CreatePayment(t, "user_1", "Июль 2026", 99, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	factory.CreatePayment(t, "user_1", "Август 2026", 99, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	factory.CreatePayment(t, "user_2", "Август 2026", 99, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	payments, err := storage.ListPayments(context.Background(), "user_1")
	require.NoError(t, err)

	require.Len(t, payments, 2)
	assert.Equal(t, "Август 2026", payments[0].Month)
	assert.Equal(t, "Июль 2026", payments[1].Month)
}

func TestStorage_Messages(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "user_1", "test@example.com")

	id, err := storage.CreateMessage(context.Background(), models.Message{
		ClerkUserID: "user_1",
		Title:       "Добро пожаловать",
		Body:        "<p>Спасибо за покупку</p>",
		Type:        models.MessageTypeSystem,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	messages, err := storage.ListMessages(context.Background(), "user_1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Добро пожаловать", messages[0].Title)
	assert.Equal(t, models.MessageTypeSystem, messages[0].Type)
	assert.False(t, messages[0].IsRead)
}

func TestStorage_MarkSessionProcessed(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	first, err := storage.MarkSessionProcessed(context.Background(), "cs_test_1", "user_1")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := storage.MarkSessionProcessed(context.Background(), "cs_test_1", "user_1")
	require.NoError(t, err)
	assert.False(t, second)

	err = storage.UnmarkSessionProcessed(context.Background(), "cs_test_1")
	require.NoError(t, err)

	again, err := storage.MarkSessionProcessed(context.Background(), "cs_test_1", "user_1")
	require.NoError(t, err)
	assert.True(t, again, "unmarked session must be processable again")
}
