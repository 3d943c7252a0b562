// Package signup holds the process-lifetime token store bridging the
// two-step signup flow. Tokens are never persisted: a server restart
// invalidates every in-flight signup, which is acceptable given the short
// window.
package signup

import (
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync"
)

// DefaultTTL is how long a completion token stays valid.
const DefaultTTL = 10 * time.Minute

// Pending is the state carried between the two signup calls.
type Pending struct {
	Email        string
	PasswordHash string
	ExpiresAt    time.Time
}

// TokenStore maps completion tokens to pending signups with a hard TTL.
// Expired entries are dropped on read and swept on every issue.
type TokenStore struct {
	ttl    time.Duration
	now    func() time.Time
	tokens *xsync.MapOf[string, Pending]
}

// NewTokenStore creates a token store with the given TTL.
func NewTokenStore(ttl time.Duration) *TokenStore {
	return NewTokenStoreWithClock(ttl, time.Now)
}

// NewTokenStoreWithClock creates a token store with an injectable clock.
func NewTokenStoreWithClock(ttl time.Duration, now func() time.Time) *TokenStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenStore{
		ttl:    ttl,
		now:    now,
		tokens: xsync.NewMapOf[Pending](),
	}
}

// Issue stores a pending signup and returns its bearer token.
func (ts *TokenStore) Issue(email, passwordHash string) string {
	ts.sweep()
	token := uuid.NewString()
	ts.tokens.Store(token, Pending{
		Email:        email,
		PasswordHash: passwordHash,
		ExpiresAt:    ts.now().Add(ts.ttl),
	})
	return token
}

// Lookup returns the pending signup for the token. An expired entry is
// deleted on the spot and reported as absent, so a retry with the same token
// fails identically.
func (ts *TokenStore) Lookup(token string) (Pending, bool) {
	pending, ok := ts.tokens.Load(token)
	if !ok {
		return Pending{}, false
	}
	if ts.now().After(pending.ExpiresAt) {
		ts.tokens.Delete(token)
		return Pending{}, false
	}
	return pending, true
}

// Consume deletes the token after a successful completion.
func (ts *TokenStore) Consume(token string) {
	ts.tokens.Delete(token)
}

// Len reports how many tokens are currently stored, expired or not.
func (ts *TokenStore) Len() int {
	return ts.tokens.Size()
}

func (ts *TokenStore) sweep() {
	now := ts.now()
	ts.tokens.Range(func(token string, pending Pending) bool {
		if now.After(pending.ExpiresAt) {
			ts.tokens.Delete(token)
		}
		return true
	})
}
