// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one immutable direct message between two raters.
type Message struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	SenderUsername   string    `gorm:"not null;index" json:"senderUsername"`
	ReceiverUsername string    `gorm:"not null;index" json:"receiverUsername"`
	Body             string    `gorm:"type:text;not null" json:"body"`
	CreatedAt        time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key when none was set.
func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Conversation summarizes a message thread with one partner for the
// conversations list.
type Conversation struct {
	Partner     string    `json:"partner"`
	LastMessage string    `json:"lastMessage"`
	LastAt      time.Time `json:"lastAt"`
}
