// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account on the platform. Accounts created through the
// federated (Google) sign-in path start with an empty handle and nickname and
// must complete profile setup before they can publish posts.
type User struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string         `json:"display_name"`
	// Handle is the unique "@name" identifier used in URLs and login.
	// Uniqueness is case-insensitive and enforced by a partial index created
	// in database.Migrate, so pending federated accounts can all hold the
	// empty handle until profile setup. Once set it is never reassigned.
	Handle    string         `json:"handle"`
	Nickname  string         `json:"nickname"`
	Avatar    string         `json:"avatar,omitempty"`
	Password  Credential     `json:"-"`
	IsAdmin   bool           `gorm:"default:false" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// ProfileComplete reports whether the user has finished the one-time profile
// setup (handle and nickname both set).
func (u *User) ProfileComplete() bool {
	return u.Handle != "" && u.Nickname != ""
}

// NormalizeHandle lowercases a handle and ensures the "@" prefix so that
// lookups and uniqueness checks compare the same canonical form.
func NormalizeHandle(handle string) string {
	h := strings.ToLower(strings.TrimSpace(handle))
	if h != "" && !strings.HasPrefix(h, "@") {
		h = "@" + h
	}
	return h
}

// UserSummary is the public shape of a user returned by profile endpoints.
type UserSummary struct {
	ID             string `json:"id"`
	Email          string `json:"email,omitempty"`
	DisplayName    string `json:"display_name,omitempty"`
	Handle         string `json:"handle"`
	Nickname       string `json:"nickname"`
	Avatar         string `json:"avatar,omitempty"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	PostCount      int64  `json:"post_count"`
}

// Summary returns the public projection of the user. Counts are filled in by
// the caller; email is only included when includeEmail is set (own profile).
func (u *User) Summary(includeEmail bool) UserSummary {
	s := UserSummary{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Handle:      u.Handle,
		Nickname:    u.Nickname,
		Avatar:      u.Avatar,
	}
	if includeEmail {
		s.Email = u.Email
	}
	return s
}
