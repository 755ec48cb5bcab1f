package models

import "time"

// Follow is a directed edge in the social graph: follower -> followee.
// At most one edge exists per ordered pair and self-edges are rejected before
// this record is ever created.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	FollowerID string    `gorm:"size:36;not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FolloweeID string    `gorm:"size:36;not null;uniqueIndex:idx_follow_pair" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"-"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"-"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
