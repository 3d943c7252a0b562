// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedPreference selects which feed a user sees by default.
type FeedPreference string

const (
	// FeedPreferenceAll shows every visible rate.
	FeedPreferenceAll FeedPreference = "all"
	// FeedPreferenceFavorites restricts the feed to favorite genres.
	FeedPreferenceFavorites FeedPreference = "favorites"
	// FeedPreferenceTrending opens on the trending view.
	FeedPreferenceTrending FeedPreference = "trending"
)

// Platform is the gaming platform a user or rate is tagged with.
type Platform string

const (
	PlatformPS   Platform = "ps"
	PlatformXbox Platform = "xbox"
	PlatformPC   Platform = "pc"
	PlatformNone Platform = "none"
)

// ValidPlatform reports whether p is one of the supported platform tags.
func ValidPlatform(p Platform) bool {
	switch p {
	case PlatformPS, PlatformXbox, PlatformPC, PlatformNone:
		return true
	}
	return false
}

// ValidFeedPreference reports whether f is a supported feed preference.
func ValidFeedPreference(f FeedPreference) bool {
	switch f {
	case FeedPreferenceAll, FeedPreferenceFavorites, FeedPreferenceTrending:
		return true
	}
	return false
}

// User represents a registered rater. Email and username are each globally
// unique; username comparisons are case-insensitive everywhere.
type User struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Username       string         `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName    string         `gorm:"not null" json:"displayName"`
	Bio            string         `json:"bio"`
	FavoriteGenres []string       `gorm:"serializer:json" json:"favoriteGameKinds"`
	FeedPreference FeedPreference `gorm:"size:20;default:'all'" json:"feedPreference"`
	Platform       Platform       `gorm:"size:10;default:'none'" json:"platform"`
	PasswordHash   string         `json:"-"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key when none was set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Profile is the public projection of a user returned by the users API.
type Profile struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Platform    Platform `json:"platform"`
}

// PublicProfile returns the public projection of the user.
func (u *User) PublicProfile() Profile {
	return Profile{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Platform:    u.Platform,
	}
}
