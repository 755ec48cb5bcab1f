package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/models"
)

func TestFollowAndCounts(t *testing.T) {
	repo := NewFollowRepository(testDB)
	ctx := context.Background()
	alice := createUser(t)
	bob := createUser(t)

	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))

	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Not symmetric.
	following, err = repo.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)

	count, err := repo.FollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.FollowingCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFollowIsIdempotent(t *testing.T) {
	repo := NewFollowRepository(testDB)
	ctx := context.Background()
	alice := createUser(t)
	bob := createUser(t)

	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))

	count, err := repo.FollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFollowSelfRejected(t *testing.T) {
	repo := NewFollowRepository(testDB)
	ctx := context.Background()
	alice := createUser(t)

	err := repo.Follow(ctx, alice.ID, alice.ID)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	count, countErr := repo.FollowingCount(ctx, alice.ID)
	require.NoError(t, countErr)
	assert.EqualValues(t, 0, count, "failed self-follow must not mutate state")
}

func TestUnfollowIsIdempotent(t *testing.T) {
	repo := NewFollowRepository(testDB)
	ctx := context.Background()
	alice := createUser(t)
	bob := createUser(t)

	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, repo.Unfollow(ctx, alice.ID, bob.ID))
	require.NoError(t, repo.Unfollow(ctx, alice.ID, bob.ID), "unfollowing a missing edge is a no-op")

	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowersAndFollowingLists(t *testing.T) {
	repo := NewFollowRepository(testDB)
	ctx := context.Background()
	alice := createUser(t)
	bob := createUser(t)
	carol := createUser(t)

	require.NoError(t, repo.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, repo.Follow(ctx, carol.ID, alice.ID))
	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))

	followers, err := repo.Followers(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	following, err := repo.Following(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)
}
