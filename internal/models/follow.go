// Package models contains data structures for the application's domain models.
package models

import "time"

// Follow is a directed edge from one rater to another. Unique per pair,
// self-follows are rejected before the edge is written.
type Follow struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	FollowerUsername string    `gorm:"not null;uniqueIndex:idx_follows_pair" json:"followerUsername"`
	FolloweeUsername string    `gorm:"not null;uniqueIndex:idx_follows_pair" json:"followeeUsername"`
	CreatedAt        time.Time `json:"createdAt"`
}
