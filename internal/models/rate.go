// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxRateImages caps the number of images attachable to one rate.
const MaxRateImages = 4

// PollOption is one answer of a rate's poll with its running vote count.
type PollOption struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Poll is an optional question attached to a rate. It is stored serialized on
// the rate row; per-user vote uniqueness is tracked separately via PollVote.
type Poll struct {
	Question string       `json:"question"`
	Options  []PollOption `json:"options"`
}

// Clone returns a deep copy, including the options slice, so callers can
// mutate or hand out a poll without aliasing the stored one.
func (p *Poll) Clone() *Poll {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Options = append([]PollOption(nil), p.Options...)
	return &cp
}

// Rate is a single user-authored rating+review of one game. Author identity
// is denormalized at creation time; rates are never edited. A rate whose
// CreatedAt lies in the future is "scheduled" and stays invisible until that
// instant passes.
type Rate struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	RaterName   string    `gorm:"not null" json:"raterName"`
	RaterHandle string    `gorm:"not null;index" json:"raterHandle"`
	GameName    string    `gorm:"not null;index" json:"gameName"`
	Rating      int       `gorm:"not null" json:"rating"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	Platform    Platform  `gorm:"size:10" json:"platform,omitempty"`
	Images      []string  `gorm:"serializer:json" json:"images,omitempty"`
	Poll        *Poll     `gorm:"serializer:json" json:"poll,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`

	// LikeCount is not persisted; computed at query time.
	LikeCount int `gorm:"->;-:migration" json:"likeCount"`
	// CommentCount is not persisted; computed at query time.
	CommentCount int `gorm:"->;-:migration" json:"commentCount"`
	// BookmarkCount is not persisted; computed at query time.
	BookmarkCount int `gorm:"->;-:migration" json:"bookmarkCount"`
	// Liked indicates whether the viewing user liked this rate (computed).
	Liked bool `gorm:"->;-:migration" json:"liked"`
	// Bookmarked indicates whether the viewing user bookmarked this rate (computed).
	Bookmarked bool `gorm:"->;-:migration" json:"bookmarked"`
}

// BeforeCreate assigns a UUID primary key when none was set.
func (r *Rate) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Visible reports whether the rate has reached its publication instant.
func (r *Rate) Visible(now time.Time) bool {
	return !r.CreatedAt.After(now)
}

// TrendingGame is one row of the trending view: a game ranked by how many
// rates it has received, 1-based.
type TrendingGame struct {
	Rank     int    `json:"rank"`
	GameName string `json:"gameName"`
	Count    int    `json:"count"`
}
