package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix    = "user:%s"
	profileKeyPrefix = "profile:%s"
	feedKey          = "feed:recent"
)

const (
	UserTTL    = 5 * time.Minute
	ProfileTTL = 5 * time.Minute
	FeedTTL    = time.Minute
)

// UserKey caches a user summary by id.
func UserKey(userID string) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

// ProfileKey caches a public profile (summary + counts) by normalized handle.
func ProfileKey(handle string) string {
	return fmt.Sprintf(profileKeyPrefix, handle)
}

// FeedKey caches the first page of the global post feed.
func FeedKey() string {
	return feedKey
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateUser drops the user's summary cache. The profile cache is keyed
// by handle and must be invalidated separately by callers that know it.
func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateProfile(ctx context.Context, handle string) {
	Invalidate(ctx, ProfileKey(handle))
}

// InvalidateFeed drops the cached feed page, called after post creation.
func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedKey())
}
