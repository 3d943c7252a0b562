package service

import (
	"context"
	"errors"
	"net"

	"gameratez/internal/models"
	"gameratez/internal/repository"
	"gameratez/internal/signup"
	"gameratez/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// MXResolver checks that a mail domain has at least one mail exchanger.
// Injectable so tests never hit DNS.
type MXResolver func(ctx context.Context, domain string) ([]*net.MX, error)

// DefaultMXResolver resolves MX records with the system resolver.
func DefaultMXResolver(ctx context.Context, domain string) ([]*net.MX, error) {
	return net.DefaultResolver.LookupMX(ctx, domain)
}

// AuthService implements the two-phase signup flow and plain login. There is
// no session artifact of any kind: signup's completion token is the only
// bearer credential in the system, held in memory with a 10-minute TTL.
type AuthService struct {
	users    repository.UserRepository
	tokens   *signup.TokenStore
	lookupMX MXResolver
}

func NewAuthService(users repository.UserRepository, tokens *signup.TokenStore, lookupMX MXResolver) *AuthService {
	if lookupMX == nil {
		lookupMX = DefaultMXResolver
	}
	return &AuthService{users: users, tokens: tokens, lookupMX: lookupMX}
}

// CompleteSignupInput carries the profile half of the signup flow.
type CompleteSignupInput struct {
	CompleteToken     string   `json:"completeToken"`
	DisplayName       string   `json:"displayName"`
	Username          string   `json:"username"`
	FavoriteGameKinds []string `json:"favoriteGameKinds"`
	FeedPreference    string   `json:"feedPreference"`
	Platform          string   `json:"platform"`
}

// Signup validates the credentials and email deliverability, then parks the
// hashed password behind a completion token. Nothing is persisted until the
// profile step lands.
func (s *AuthService) Signup(ctx context.Context, email, password string) (string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	mx, err := s.lookupMX(ctx, validation.EmailDomain(email))
	if err != nil || len(mx) == 0 {
		return "", models.NewValidationError("Email domain cannot receive mail")
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewConflictError("An account with this email already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return s.tokens.Issue(email, string(hash)), nil
}

// Complete turns a pending signup into a user record. A taken username does
// not consume the token: the client resubmits preferences rather than
// restarting the whole flow.
func (s *AuthService) Complete(ctx context.Context, in CompleteSignupInput) (*models.User, error) {
	pending, ok := s.tokens.Lookup(in.CompleteToken)
	if !ok {
		return nil, models.NewValidationError("Invalid or expired signup token")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.DisplayName == "" {
		return nil, models.NewValidationError("Display name is required")
	}
	feedPref := models.FeedPreference(in.FeedPreference)
	if in.FeedPreference == "" {
		feedPref = models.FeedPreferenceAll
	} else if !models.ValidFeedPreference(feedPref) {
		return nil, models.NewValidationError("Invalid feed preference")
	}
	platform := models.Platform(in.Platform)
	if in.Platform == "" {
		platform = models.PlatformNone
	} else if !models.ValidPlatform(platform) {
		return nil, models.NewValidationError("Invalid platform")
	}

	taken, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, models.NewConflictError("Username is already taken")
	}

	user := &models.User{
		Email:          pending.Email,
		Username:       in.Username,
		DisplayName:    in.DisplayName,
		FavoriteGenres: in.FavoriteGameKinds,
		FeedPreference: feedPref,
		Platform:       platform,
		PasswordHash:   pending.PasswordHash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, models.NewConflictError("Username is already taken")
		}
		return nil, err
	}
	s.tokens.Consume(in.CompleteToken)
	return user, nil
}

// Login checks email+password. A password-less account (created through some
// other channel) cannot log in this way and gets a validation error, not an
// authentication one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if user.PasswordHash == "" {
		return nil, models.NewValidationError("This account has no password login")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}
