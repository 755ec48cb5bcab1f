package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// excerptRunes is the number of leading runes copied into a post's excerpt.
const excerptRunes = 150

// Post is a published piece of content. Handle and Nickname are snapshots of
// the author's profile at the time of writing and are intentionally NOT kept
// in sync with later profile edits; historical accuracy over live lookups.
type Post struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  string `gorm:"size:36;not null;index" json:"user_id"`
	// Author profile snapshot at creation time.
	Handle    string         `json:"handle"`
	Nickname  string         `json:"nickname"`
	Excerpt   string         `json:"excerpt"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns the UUID key and derives the excerpt from the content.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Excerpt == "" {
		p.Excerpt = MakeExcerpt(p.Content)
	}
	return nil
}

// MakeExcerpt returns the first 150 runes of content, with an ellipsis marker
// appended when the content is longer. Counting runes (not bytes) keeps
// multi-byte text from being cut mid-character.
func MakeExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptRunes {
		return content
	}
	return string(runes[:excerptRunes]) + "..."
}
