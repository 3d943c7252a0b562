package service

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"gameratez/internal/filestore"
	"gameratez/internal/games"
	"gameratez/internal/models"
	"gameratez/internal/signup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service against a throwaway flat-file store with a
// frozen clock.
type testEnv struct {
	store      *filestore.Store
	now        time.Time
	rates      *RateService
	engagement *EngagementService
	follows    *FollowService
	auth       *AuthService
	tokens     *signup.TokenStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := filestore.Open(t.TempDir(), logger)
	require.NoError(t, err)

	env := &testEnv{
		store: store,
		now:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }
	catalog := games.New([]string{"Hades", "Celeste", "Outer Wilds", "Dota 2"})

	env.rates = NewRateService(store.Rates(), store.Users(), store.Follows(), store.Engagement(), catalog, clock)
	env.engagement = NewEngagementService(store.Rates(), store.Engagement(), store.Users(), store.Notifications(), clock)
	env.follows = NewFollowService(store.Follows(), store.Users(), store.Notifications(), clock)
	env.tokens = signup.NewTokenStoreWithClock(signup.DefaultTTL, clock)
	env.auth = NewAuthService(store.Users(), env.tokens, acceptAllMX)
	return env
}

func acceptAllMX(_ context.Context, _ string) ([]*net.MX, error) {
	return []*net.MX{{Host: "mx.example.com", Pref: 10}}, nil
}

func rejectAllMX(_ context.Context, _ string) ([]*net.MX, error) {
	return nil, nil
}

func (e *testEnv) addUser(t *testing.T, username, displayName string) *models.User {
	t.Helper()
	user := &models.User{
		Email:       username + "@example.com",
		Username:    username,
		DisplayName: displayName,
	}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return user
}

func (e *testEnv) addRate(t *testing.T, handle, game string, rating int) *models.Rate {
	t.Helper()
	rate, err := e.rates.CreateRate(context.Background(), CreateRateInput{
		GameName:    game,
		Rating:      rating,
		Body:        "solid",
		RaterHandle: handle,
	})
	require.NoError(t, err)
	return rate
}

// assertCode checks the error is an AppError carrying the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
