package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"quill/internal/models"
)

// FollowRepository handles the social graph edges.
type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Follow inserts an edge. Following yourself is a validation error; following
// someone you already follow is a no-op.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if followerID == followeeID {
		return models.NewValidationError("You cannot follow yourself")
	}

	edge := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	err := r.db.WithContext(ctx).Create(&edge).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil // already following
		}
		return models.NewStorageError(err)
	}
	return nil
}

// Unfollow removes the edge if present. Removing a missing edge is a no-op.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewStorageError(err)
	}
	return nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var edge models.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, models.NewStorageError(err)
	}
	return true, nil
}

func (r *FollowRepository) FollowerCount(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewStorageError(err)
	}
	return count, nil
}

func (r *FollowRepository) FollowingCount(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewStorageError(err)
	}
	return count, nil
}

// Followers returns the users following userID.
func (r *FollowRepository) Followers(ctx context.Context, userID string, limit int) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	return users, nil
}

// Following returns the users userID follows.
func (r *FollowRepository) Following(ctx context.Context, userID string, limit int) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	return users, nil
}
