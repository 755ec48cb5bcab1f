// Package repository contains the GORM-backed data access layer.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"quill/internal/models"
)

// queryTimeout bounds every storage call so a hung database surfaces as a
// storage error instead of a stalled request.
var queryTimeout = 5 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// isUniqueConstraintError detects duplicate-key failures across the postgres
// and sqlite drivers without importing driver-specific error types.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique failed")
}

// UserRepository handles user persistence.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email or handle is already taken")
		}
		return models.NewStorageError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("User", id)
	}
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	return &user, nil
}

// GetByHandle matches case-insensitively and returns nil, nil when absent.
// Handles are stored lowercase but the compare stays tolerant of rows written
// before normalization.
func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(handle) = LOWER(?)", models.NormalizeHandle(handle)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Handle is already taken")
		}
		return models.NewStorageError(err)
	}
	return nil
}

// HandleAvailable reports whether no user holds the handle.
func (r *UserRepository) HandleAvailable(ctx context.Context, handle string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(handle) = LOWER(?)", models.NormalizeHandle(handle)).
		Count(&count).Error
	if err != nil {
		return false, models.NewStorageError(err)
	}
	return count == 0, nil
}
