package filestore

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gameratez/internal/models"
	"gameratez/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := Open(t.TempDir(), logger)
	require.NoError(t, err)
	return store
}

func seedRate(t *testing.T, store *Store, game, handle string, createdAt time.Time) *models.Rate {
	t.Helper()
	rate := &models.Rate{
		RaterName:   handle,
		RaterHandle: handle,
		GameName:    game,
		Rating:      8,
		Body:        "worth playing",
		CreatedAt:   createdAt,
	}
	require.NoError(t, store.Rates().Create(context.Background(), rate))
	return rate
}

func TestUserStore_UniquenessAndLookup(t *testing.T) {
	store := openTestStore(t)
	users := store.Users()
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &models.User{
		Email:       "alice@example.com",
		Username:    "alice",
		DisplayName: "Alice",
	}))

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := users.Create(ctx, &models.User{
			Email:    "ALICE@example.com",
			Username: "alice2",
		})
		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("duplicate username conflicts regardless of case", func(t *testing.T) {
		err := users.Create(ctx, &models.User{
			Email:    "other@example.com",
			Username: "Alice",
		})
		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		user, err := users.GetByUsername(ctx, "ALICE")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("miss returns nil without error", func(t *testing.T) {
		user, err := users.GetByUsername(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestRateStore_VisibilityWindow(t *testing.T) {
	store := openTestStore(t)
	rates := store.Rates()
	ctx := context.Background()
	now := time.Now().UTC()

	visible := seedRate(t, store, "Hades", "bob", now.Add(-time.Hour))
	scheduled := seedRate(t, store, "Celeste", "bob", now.Add(time.Hour))

	list, err := rates.List(ctx, "", "", now)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, visible.ID, list[0].ID)

	_, err = rates.GetByID(ctx, scheduled.ID, "", now)
	assert.ErrorIs(t, err, repository.ErrNotFound, "scheduled rate hidden until its timestamp")

	got, err := rates.GetByID(ctx, scheduled.ID, "", now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "Celeste", got.GameName)
}

func TestRateStore_ListOrderingAndPlatform(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := seedRate(t, store, "Hades", "bob", now.Add(-3*time.Hour))
	newer := seedRate(t, store, "Celeste", "bob", now.Add(-time.Hour))
	pc := &models.Rate{
		RaterHandle: "bob", RaterName: "bob", GameName: "Dota 2",
		Rating: 7, Body: "still going", Platform: models.PlatformPC,
		CreatedAt: now.Add(-2 * time.Hour),
	}
	require.NoError(t, store.Rates().Create(ctx, pc))

	list, err := store.Rates().List(ctx, "", "", now)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, newer.ID, list[0].ID, "newest first")
	assert.Equal(t, old.ID, list[2].ID)

	filtered, err := store.Rates().List(ctx, "", models.PlatformPC, now)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, pc.ID, filtered[0].ID)
}

func TestRateStore_Enrichment(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rate := seedRate(t, store, "Hades", "bob", now.Add(-time.Hour))
	eng := store.Engagement()
	require.NoError(t, eng.Like(ctx, rate.ID, "alice"))
	require.NoError(t, eng.Like(ctx, rate.ID, "carol"))
	require.NoError(t, eng.Bookmark(ctx, rate.ID, "carol"))
	require.NoError(t, eng.CreateComment(ctx, &models.Comment{
		RateID: rate.ID, Username: "alice", Body: "agreed",
	}))

	t.Run("counts and viewer flags", func(t *testing.T) {
		got, err := store.Rates().GetByID(ctx, rate.ID, "alice", now)
		require.NoError(t, err)
		assert.Equal(t, 2, got.LikeCount)
		assert.Equal(t, 1, got.CommentCount)
		assert.Equal(t, 1, got.BookmarkCount)
		assert.True(t, got.Liked)
		assert.False(t, got.Bookmarked)
	})

	t.Run("anonymous viewer gets plain counts", func(t *testing.T) {
		got, err := store.Rates().GetByID(ctx, rate.ID, "", now)
		require.NoError(t, err)
		assert.Equal(t, 2, got.LikeCount)
		assert.False(t, got.Liked)
	})
}

func TestRateStore_Trending(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// "Hades" seen first lowercase, counted together with later casings.
	seedRate(t, store, "hades", "bob", now.Add(-5*time.Hour))
	seedRate(t, store, "Hades", "alice", now.Add(-4*time.Hour))
	seedRate(t, store, "HADES", "carol", now.Add(-3*time.Hour))
	seedRate(t, store, "Celeste", "bob", now.Add(-2*time.Hour))
	seedRate(t, store, "Celeste", "alice", now.Add(-time.Hour))
	seedRate(t, store, "Outer Wilds", "bob", now.Add(-time.Minute))

	trending, err := store.Rates().Trending(ctx, 5)
	require.NoError(t, err)
	require.Len(t, trending, 3)
	assert.Equal(t, models.TrendingGame{Rank: 1, GameName: "hades", Count: 3}, trending[0])
	assert.Equal(t, models.TrendingGame{Rank: 2, GameName: "Celeste", Count: 2}, trending[1])
	assert.Equal(t, models.TrendingGame{Rank: 3, GameName: "Outer Wilds", Count: 1}, trending[2])
}

func TestRateStore_TrendingTieBreak(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	seedRate(t, store, "Zelda", "bob", now.Add(-2*time.Hour))
	seedRate(t, store, "Animal Well", "alice", now.Add(-time.Hour))

	trending, err := store.Rates().Trending(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, trending, 2)
	assert.Equal(t, "Animal Well", trending[0].GameName, "ties break alphabetically")
	assert.Equal(t, "Zelda", trending[1].GameName)
}

func TestRateStore_ListBookmarked(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	kept := seedRate(t, store, "Hades", "bob", now.Add(-2*time.Hour))
	seedRate(t, store, "Celeste", "bob", now.Add(-time.Hour))
	require.NoError(t, store.Engagement().Bookmark(ctx, kept.ID, "Alice"))

	list, err := store.Rates().ListBookmarked(ctx, "alice", "alice", "", now)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
	assert.True(t, list[0].Bookmarked)
}

func TestEngagementStore_LikeLifecycle(t *testing.T) {
	store := openTestStore(t)
	eng := store.Engagement()
	ctx := context.Background()

	require.NoError(t, eng.Like(ctx, "r-1", "alice"))
	assert.ErrorIs(t, eng.Like(ctx, "r-1", "ALICE"), repository.ErrConflict)

	count, err := eng.LikeCount(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, eng.Unlike(ctx, "r-1", "alice"))
	assert.ErrorIs(t, eng.Unlike(ctx, "r-1", "alice"), repository.ErrNotFound)
}

func TestEngagementStore_CommentsOldestFirst(t *testing.T) {
	store := openTestStore(t)
	eng := store.Engagement()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, eng.CreateComment(ctx, &models.Comment{
		RateID: "r-1", Username: "bob", Body: "second", CreatedAt: now,
	}))
	require.NoError(t, eng.CreateComment(ctx, &models.Comment{
		RateID: "r-1", Username: "alice", Body: "first", CreatedAt: now.Add(-time.Minute),
	}))

	comments, err := eng.ListComments(ctx, "r-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "second", comments[1].Body)
}

func TestEngagementStore_VotePollOnce(t *testing.T) {
	store := openTestStore(t)
	eng := store.Engagement()
	ctx := context.Background()

	require.NoError(t, eng.VotePoll(ctx, &models.PollVote{RateID: "r-1", Username: "alice", OptionIndex: 0}))
	err := eng.VotePoll(ctx, &models.PollVote{RateID: "r-1", Username: "Alice", OptionIndex: 1})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestRateStore_PollCopiesDoNotAliasStore(t *testing.T) {
	store := openTestStore(t)
	rates := store.Rates()
	ctx := context.Background()
	now := time.Now()

	rate := &models.Rate{
		RaterName:   "alice",
		RaterHandle: "alice",
		GameName:    "Hades",
		Rating:      9,
		Body:        "poll attached",
		CreatedAt:   now.Add(-time.Hour),
		Poll: &models.Poll{
			Question: "Best boon?",
			Options:  []models.PollOption{{Text: "Zeus"}, {Text: "Athena"}},
		},
	}
	require.NoError(t, rates.Create(ctx, rate))

	first, err := rates.GetByID(ctx, rate.ID, "", now)
	require.NoError(t, err)
	require.NotNil(t, first.Poll)

	// Mutating a returned copy must not reach the stored record.
	first.Poll.Options[0].Votes = 99

	second, err := rates.GetByID(ctx, rate.ID, "", now)
	require.NoError(t, err)
	require.NotNil(t, second.Poll)
	assert.NotSame(t, first.Poll, second.Poll)
	assert.Equal(t, 0, second.Poll.Options[0].Votes)

	// UpdatePoll snapshots its argument; later caller-side writes stay local.
	updated := second.Poll.Clone()
	updated.Options[0].Votes = 1
	require.NoError(t, rates.UpdatePoll(ctx, rate.ID, updated))
	updated.Options[0].Votes = 42

	stored, err := rates.GetByID(ctx, rate.ID, "", now)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Poll.Options[0].Votes)
}

func TestRateStore_DeleteCascades(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	doomed := seedRate(t, store, "Hades", "bob", now.Add(-time.Hour))
	survivor := seedRate(t, store, "Celeste", "bob", now.Add(-time.Hour))

	eng := store.Engagement()
	require.NoError(t, eng.Like(ctx, doomed.ID, "alice"))
	require.NoError(t, eng.Like(ctx, survivor.ID, "alice"))
	require.NoError(t, eng.Bookmark(ctx, doomed.ID, "alice"))
	require.NoError(t, eng.CreateComment(ctx, &models.Comment{RateID: doomed.ID, Username: "alice", Body: "gone soon"}))
	require.NoError(t, eng.VotePoll(ctx, &models.PollVote{RateID: doomed.ID, Username: "alice"}))
	require.NoError(t, store.Notifications().Create(ctx, &models.Notification{
		Type: models.NotificationTypeLike, RecipientUsername: "bob", ActorUsername: "alice", RateID: doomed.ID,
	}))

	require.NoError(t, store.Rates().Delete(ctx, doomed.ID))

	_, err := store.Rates().GetByID(ctx, doomed.ID, "", now)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	count, err := eng.LikeCount(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = eng.LikeCount(ctx, survivor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "other rates keep their likes")

	unread, err := store.Notifications().UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, unread, "notifications about the rate go with it")

	assert.ErrorIs(t, store.Rates().Delete(ctx, doomed.ID), repository.ErrNotFound)
}

func TestFollowStore_EdgeLifecycle(t *testing.T) {
	store := openTestStore(t)
	follows := store.Follows()
	ctx := context.Background()

	require.NoError(t, follows.Create(ctx, "alice", "bob"))
	assert.ErrorIs(t, follows.Create(ctx, "Alice", "BOB"), repository.ErrConflict)

	ok, err := follows.Exists(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = follows.Exists(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, ok, "edges are directional")

	followees, err := follows.Followees(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, followees)

	require.NoError(t, follows.Delete(ctx, "alice", "bob"))
	assert.ErrorIs(t, follows.Delete(ctx, "alice", "bob"), repository.ErrNotFound)
}

func TestNotificationStore_ReadTracking(t *testing.T) {
	store := openTestStore(t)
	notifications := store.Notifications()
	ctx := context.Background()
	now := time.Now().UTC()

	first := &models.Notification{
		Type: models.NotificationTypeLike, RecipientUsername: "bob",
		ActorUsername: "alice", CreatedAt: now.Add(-time.Minute),
	}
	second := &models.Notification{
		Type: models.NotificationTypeFollow, RecipientUsername: "bob",
		ActorUsername: "carol", CreatedAt: now,
	}
	require.NoError(t, notifications.Create(ctx, first))
	require.NoError(t, notifications.Create(ctx, second))
	require.NoError(t, notifications.Create(ctx, &models.Notification{
		Type: models.NotificationTypeLike, RecipientUsername: "carol", ActorUsername: "bob",
	}))

	list, err := notifications.ListByRecipient(ctx, "BOB")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	unread, err := notifications.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, notifications.MarkRead(ctx, first.ID))
	unread, err = notifications.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	assert.ErrorIs(t, notifications.MarkRead(ctx, "missing"), repository.ErrNotFound)

	changed, err := notifications.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	changed, err = notifications.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestMessageStore_Conversations(t *testing.T) {
	store := openTestStore(t)
	messages := store.Messages()
	ctx := context.Background()
	now := time.Now().UTC()

	send := func(from, to, body string, at time.Time) {
		t.Helper()
		require.NoError(t, messages.Create(ctx, &models.Message{
			SenderUsername: from, ReceiverUsername: to, Body: body, CreatedAt: at,
		}))
	}
	send("alice", "bob", "hey", now.Add(-3*time.Minute))
	send("bob", "alice", "yo", now.Add(-2*time.Minute))
	send("carol", "alice", "new game?", now.Add(-time.Minute))

	t.Run("thread is newest first and two-sided", func(t *testing.T) {
		thread, err := messages.Thread(ctx, "alice", "bob")
		require.NoError(t, err)
		require.Len(t, thread, 2)
		assert.Equal(t, "yo", thread[0].Body)
		assert.Equal(t, "hey", thread[1].Body)
	})

	t.Run("one summary per partner, most recent thread first", func(t *testing.T) {
		conversations, err := messages.Conversations(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, conversations, 2)
		assert.Equal(t, "carol", conversations[0].Partner)
		assert.Equal(t, "new game?", conversations[0].LastMessage)
		assert.Equal(t, "bob", conversations[1].Partner)
		assert.Equal(t, "yo", conversations[1].LastMessage)
	})
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	now := time.Now().UTC()

	store, err := Open(dir, logger)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, &models.User{
		Email: "alice@example.com", Username: "alice", DisplayName: "Alice",
		PasswordHash: "hash-survives-restart",
	}))
	rate := seedRate(t, store, "Hades", "alice", now.Add(-time.Hour))
	require.NoError(t, store.Engagement().Like(ctx, rate.ID, "bob"))

	reopened, err := Open(dir, logger)
	require.NoError(t, err)

	user, err := reopened.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "hash-survives-restart", user.PasswordHash)

	got, err := reopened.Rates().GetByID(ctx, rate.ID, "", now)
	require.NoError(t, err)
	assert.Equal(t, "Hades", got.GameName)
	assert.Equal(t, 1, got.LikeCount)

	err = reopened.Users().Create(ctx, &models.User{Email: "x@example.com", Username: "Alice"})
	assert.ErrorIs(t, err, repository.ErrConflict, "uniqueness holds across restarts")
}
