// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportReasonLimit caps the stored length of a report's free-text reason.
const ReportReasonLimit = 280

// Like marks that a user liked a rate. At most one per (rate, user) pair.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	RateID    string    `gorm:"size:36;not null;uniqueIndex:idx_likes_rate_user" json:"rateId"`
	Username  string    `gorm:"not null;uniqueIndex:idx_likes_rate_user" json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bookmark marks that a user bookmarked a rate. Same shape as Like but never
// produces a notification.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	RateID    string    `gorm:"size:36;not null;uniqueIndex:idx_bookmarks_rate_user" json:"rateId"`
	Username  string    `gorm:"not null;uniqueIndex:idx_bookmarks_rate_user" json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is an immutable reply to a rate.
type Comment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	RateID      string    `gorm:"size:36;not null;index" json:"rateId"`
	Username    string    `gorm:"not null" json:"username"`
	DisplayName string    `json:"displayName"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key when none was set.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Report is a user complaint about a rate. Write-only from the API.
type Report struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	RateID           string    `gorm:"size:36;not null;index" json:"rateId"`
	ReporterUsername string    `gorm:"not null" json:"reporterUsername"`
	Reason           string    `gorm:"size:280" json:"reason"`
	CreatedAt        time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key when none was set.
func (r *Report) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// PollVote records one user's vote on a rate's poll. At most one per
// (rate, user) pair; the option counters live on the rate's serialized poll.
type PollVote struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	RateID      string    `gorm:"size:36;not null;uniqueIndex:idx_poll_votes_rate_user" json:"rateId"`
	Username    string    `gorm:"not null;uniqueIndex:idx_poll_votes_rate_user" json:"username"`
	OptionIndex int       `gorm:"not null" json:"optionIndex"`
	CreatedAt   time.Time `json:"createdAt"`
}
