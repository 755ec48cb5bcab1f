package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quill/internal/models"
)

func TestUserCreateAssignsID(t *testing.T) {
	user := createUser(t)
	assert.NotEmpty(t, user.ID)
	assert.Len(t, user.ID, 36)
}

func TestUserGetByHandleCaseInsensitive(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()
	user := createUser(t)

	for _, variant := range []string{user.Handle, strings.ToUpper(user.Handle), user.Handle[1:]} {
		found, err := repo.GetByHandle(ctx, variant)
		require.NoError(t, err, "lookup %q", variant)
		require.NotNil(t, found, "lookup %q", variant)
		assert.Equal(t, user.ID, found.ID)
	}
}

func TestUserGetByHandleMissingIsNilNil(t *testing.T) {
	repo := NewUserRepository(testDB)
	found, err := repo.GetByHandle(context.Background(), "@does_not_exist")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserGetByEmailMissingIsNilNil(t *testing.T) {
	repo := NewUserRepository(testDB)
	found, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserGetByIDNotFound(t *testing.T) {
	repo := NewUserRepository(testDB)
	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUserDuplicateHandleConflicts(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()
	user := createUser(t)

	dup := &models.User{
		Email:    "someone-else@example.com",
		Handle:   user.Handle,
		Nickname: "Someone Else",
	}
	err := repo.Create(ctx, dup)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestUserPendingAccountsShareEmptyHandle(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	// Federated sign-ins store users without a handle until profile setup,
	// so any number of pending accounts must coexist.
	first := &models.User{Email: "first-signin@example.com", DisplayName: "First Signin"}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.User{Email: "second-signin@example.com", DisplayName: "Second Signin"}
	require.NoError(t, repo.Create(ctx, second))

	assert.False(t, first.ProfileComplete())
	assert.False(t, second.ProfileComplete())
}

func TestUserHandleAvailable(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()
	user := createUser(t)

	available, err := repo.HandleAvailable(ctx, user.Handle)
	require.NoError(t, err)
	assert.False(t, available)

	available, err = repo.HandleAvailable(ctx, "@completely_fresh")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestUserUpdateProfileSetup(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := &models.User{Email: "pending@example.com", DisplayName: "Pending Person"}
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.ProfileComplete())

	user.Handle = "@pending_person"
	user.Nickname = "Pending"
	require.NoError(t, repo.Update(ctx, user))

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.ProfileComplete())
	assert.Equal(t, "@pending_person", reloaded.Handle)
}

func TestUserStorageErrorIsWrapped(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	repo := NewUserRepository(db)
	_, err = repo.GetByEmail(context.Background(), "any@example.com")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "STORAGE_ERROR", appErr.Code)
	assert.Equal(t, "Storage operation failed", appErr.Message)
}

func TestUserSlowQueryTimesOut(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT").
		WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	prev := queryTimeout
	queryTimeout = 50 * time.Millisecond
	defer func() { queryTimeout = prev }()

	repo := NewUserRepository(db)
	_, err = repo.GetByEmail(context.Background(), "slow@example.com")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "STORAGE_ERROR", appErr.Code)
}
