// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType distinguishes what caused a notification.
type NotificationType string

const (
	// NotificationTypeLike is emitted when someone likes a rate.
	NotificationTypeLike NotificationType = "like"
	// NotificationTypeFollow is emitted when someone follows a rater.
	NotificationTypeFollow NotificationType = "follow"
	// NotificationTypeComment is emitted when someone comments on a rate.
	NotificationTypeComment NotificationType = "comment"
)

// NotificationSnippetLimit caps the comment excerpt carried on comment
// notifications, in runes.
const NotificationSnippetLimit = 80

// Notification is a persisted fan-out record addressed to one user. Created
// only by follow/like/comment events, mutated only by mark-read, deleted only
// when its rate is cascaded away.
type Notification struct {
	ID                string           `gorm:"primaryKey;size:36" json:"id"`
	Type              NotificationType `gorm:"size:10;not null" json:"type"`
	RecipientUsername string           `gorm:"not null;index" json:"recipientUsername"`
	ActorUsername     string           `gorm:"not null" json:"actorUsername"`
	ActorDisplayName  string           `json:"actorDisplayName,omitempty"`
	RateID            string           `gorm:"size:36;index" json:"rateId,omitempty"`
	GameName          string           `json:"gameName,omitempty"`
	Body              string           `json:"body,omitempty"`
	Read              bool             `gorm:"default:false" json:"read"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key when none was set.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
