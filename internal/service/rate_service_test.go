package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateService_CreateRate(t *testing.T) {
	ctx := context.Background()

	t.Run("canonicalizes game and author", func(t *testing.T) {
		env := newTestEnv(t)
		env.addUser(t, "bob", "Bob the Rater")

		rate, err := env.rates.CreateRate(ctx, CreateRateInput{
			GameName:    "hades",
			Rating:      8,
			Body:        "boons all day",
			RaterHandle: "BOB",
		})
		require.NoError(t, err)
		assert.Equal(t, "Hades", rate.GameName, "catalog casing wins")
		assert.Equal(t, "bob", rate.RaterHandle, "stored handle casing wins")
		assert.Equal(t, "Bob the Rater", rate.RaterName)
		assert.Equal(t, env.now, rate.CreatedAt)
		assert.Zero(t, rate.LikeCount)
	})

	t.Run("unknown game", func(t *testing.T) {
		env := newTestEnv(t)
		env.addUser(t, "bob", "Bob")
		_, err := env.rates.CreateRate(ctx, CreateRateInput{
			GameName: "Not In Catalog", Rating: 8, Body: "x", RaterHandle: "bob",
		})
		assertCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("rating bounds", func(t *testing.T) {
		env := newTestEnv(t)
		env.addUser(t, "bob", "Bob")
		for _, rating := range []int{0, 11, -1} {
			_, err := env.rates.CreateRate(ctx, CreateRateInput{
				GameName: "Hades", Rating: rating, Body: "x", RaterHandle: "bob",
			})
			assertCode(t, err, "VALIDATION_ERROR")
		}
	})

	t.Run("unknown author", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.rates.CreateRate(ctx, CreateRateInput{
			GameName: "Hades", Rating: 8, Body: "x", RaterHandle: "ghost",
		})
		assertCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("too many images", func(t *testing.T) {
		env := newTestEnv(t)
		env.addUser(t, "bob", "Bob")
		_, err := env.rates.CreateRate(ctx, CreateRateInput{
			GameName: "Hades", Rating: 8, Body: "x", RaterHandle: "bob",
			Images: []string{"a", "b", "c", "d", "e"},
		})
		assertCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("poll option rules", func(t *testing.T) {
		env := newTestEnv(t)
		env.addUser(t, "bob", "Bob")

		_, err := env.rates.CreateRate(ctx, CreateRateInput{
			GameName: "Hades", Rating: 8, Body: "x", RaterHandle: "bob",
			Poll: &CreateRatePollInput{Question: "best boon?", Options: []string{"only one", "  "}},
		})
		assertCode(t, err, "VALIDATION_ERROR")

		rate, err := env.rates.CreateRate(ctx, CreateRateInput{
			GameName: "Hades", Rating: 8, Body: "x", RaterHandle: "bob",
			Poll: &CreateRatePollInput{Question: "best boon?", Options: []string{" Zeus ", "Poseidon"}},
		})
		require.NoError(t, err)
		require.NotNil(t, rate.Poll)
		assert.Equal(t, "Zeus", rate.Poll.Options[0].Text, "options are trimmed")
	})
}

func TestRateService_ScheduledRates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "bob", "Bob")

	future := env.now.Add(time.Hour)
	scheduled, err := env.rates.CreateRate(ctx, CreateRateInput{
		GameName: "Celeste", Rating: 9, Body: "later", RaterHandle: "bob",
		ScheduledAt: &future,
	})
	require.NoError(t, err)

	list, err := env.rates.ListRates(ctx, ListRatesInput{})
	require.NoError(t, err)
	assert.Empty(t, list, "scheduled rate hidden from the feed")

	_, err = env.rates.GetRate(ctx, scheduled.ID, "")
	assertCode(t, err, "NOT_FOUND")

	result, err := env.rates.Search(ctx, "celeste", "")
	require.NoError(t, err)
	assert.Len(t, result.Rates, 1, "search sees scheduled rates")

	env.now = env.now.Add(2 * time.Hour)
	list, err = env.rates.ListRates(ctx, ListRatesInput{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, scheduled.ID, list[0].ID, "visible once its timestamp passes")
}

func TestRateService_ListRates_FollowingTab(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "alice", "Alice")
	env.addUser(t, "bob", "Bob")
	env.addUser(t, "carol", "Carol")

	env.addRate(t, "bob", "Hades", 8)
	env.addRate(t, "carol", "Celeste", 9)
	require.NoError(t, env.follows.Follow(ctx, "alice", "bob"))

	list, err := env.rates.ListRates(ctx, ListRatesInput{Tab: "following", Username: "alice"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].RaterHandle)

	_, err = env.rates.ListRates(ctx, ListRatesInput{Tab: "following"})
	assertCode(t, err, "VALIDATION_ERROR")
}

func TestRateService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "hadesfan", "Hades Fan")
	env.addUser(t, "bob", "Bob")
	env.addRate(t, "bob", "Hades", 8)

	result, err := env.rates.Search(ctx, "hades", "")
	require.NoError(t, err)
	assert.Len(t, result.Users, 1)
	assert.Len(t, result.Rates, 1)

	_, err = env.rates.Search(ctx, "   ", "")
	assertCode(t, err, "VALIDATION_ERROR")
}

func TestRateService_SearchCaps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i <= SearchUserLimit; i++ {
		env.addUser(t, fmt.Sprintf("hero_%02d", i), "Hero")
	}
	env.addUser(t, "bob", "Bob")
	for i := 0; i <= SearchRateLimit; i++ {
		env.addRate(t, "bob", "Hades", 8)
	}

	result, err := env.rates.Search(ctx, "hero", "")
	require.NoError(t, err)
	assert.Len(t, result.Users, SearchUserLimit)

	result, err = env.rates.Search(ctx, "hades", "")
	require.NoError(t, err)
	assert.Len(t, result.Rates, SearchRateLimit)
}

func TestRateService_VotePoll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "bob", "Bob")
	env.addUser(t, "alice", "Alice")

	rate, err := env.rates.CreateRate(ctx, CreateRateInput{
		GameName: "Dota 2", Rating: 7, Body: "ranked grind", RaterHandle: "bob",
		Poll: &CreateRatePollInput{Question: "best role?", Options: []string{"carry", "support"}},
	})
	require.NoError(t, err)

	t.Run("vote lands and bumps the counter", func(t *testing.T) {
		voted, err := env.rates.VotePoll(ctx, rate.ID, "alice", 1)
		require.NoError(t, err)
		assert.Equal(t, 1, voted.Poll.Options[1].Votes)
		assert.Zero(t, voted.Poll.Options[0].Votes)
	})

	t.Run("second vote conflicts", func(t *testing.T) {
		_, err := env.rates.VotePoll(ctx, rate.ID, "ALICE", 0)
		assertCode(t, err, "CONFLICT")
	})

	t.Run("option out of range", func(t *testing.T) {
		_, err := env.rates.VotePoll(ctx, rate.ID, "bob", 2)
		assertCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("rate without a poll", func(t *testing.T) {
		plain := env.addRate(t, "bob", "Hades", 8)
		_, err := env.rates.VotePoll(ctx, plain.ID, "alice", 0)
		assertCode(t, err, "VALIDATION_ERROR")
	})
}

func TestRateService_Trending(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "bob", "Bob")
	env.addRate(t, "bob", "Hades", 8)
	env.addRate(t, "bob", "Celeste", 9)
	// Scheduled rates still count toward trending.
	future := env.now.Add(time.Hour)
	_, err := env.rates.CreateRate(context.Background(), CreateRateInput{
		GameName: "Celeste", Rating: 10, Body: "again", RaterHandle: "bob",
		ScheduledAt: &future,
	})
	require.NoError(t, err)

	trending, err := env.rates.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, trending, 2)
	assert.Equal(t, "Celeste", trending[0].GameName)
	assert.Equal(t, 2, trending[0].Count)
}
