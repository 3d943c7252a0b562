package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rateColumns = []string{
	"id", "game_name", "rating", "body", "rater_handle", "rater_name",
	"platform", "created_at", "like_count", "comment_count", "bookmark_count",
	"liked", "bookmarked",
}

func TestRateRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRateRepository(db)
	now := time.Now()

	t.Run("visible rate with viewer flags", func(t *testing.T) {
		mock.ExpectQuery(`SELECT rates\.\*, \(SELECT COUNT\(\*\) FROM likes`).
			WithArgs("alice", "alice", "r-1", now, 1).
			WillReturnRows(sqlmock.NewRows(rateColumns).
				AddRow("r-1", "Hades", 9, "great run", "bob", "Bob", "pc",
					now.Add(-time.Hour), 4, 2, 1, true, false))

		rate, err := repo.GetByID(context.Background(), "r-1", "alice", now)
		require.NoError(t, err)
		assert.Equal(t, "Hades", rate.GameName)
		assert.Equal(t, 4, rate.LikeCount)
		assert.True(t, rate.Liked)
		assert.False(t, rate.Bookmarked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing rate maps to sentinel", func(t *testing.T) {
		mock.ExpectQuery(`SELECT rates\.\*`).
			WithArgs("gone", now, 1).
			WillReturnRows(sqlmock.NewRows(rateColumns))

		rate, err := repo.GetByID(context.Background(), "gone", "", now)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, rate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRateRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRateRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE rates.created_at <= $1 AND rates.platform = $2 ORDER BY rates.created_at DESC`)).
		WithArgs(now, "pc").
		WillReturnRows(sqlmock.NewRows(rateColumns).
			AddRow("r-2", "Celeste", 10, "b-sides", "alice", "Alice", "pc",
				now.Add(-time.Minute), 0, 0, 0, false, false).
			AddRow("r-1", "Hades", 9, "great run", "bob", "Bob", "pc",
				now.Add(-time.Hour), 4, 2, 1, false, false))

	rates, err := repo.List(context.Background(), "", "pc", now)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "Celeste", rates[0].GameName, "newest rate first")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_ListByAuthors(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRateRepository(db)
	now := time.Now()

	t.Run("lowercases author handles", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`LOWER(rates.rater_handle) IN ($2,$3)`)).
			WithArgs(now, "bob", "carol").
			WillReturnRows(sqlmock.NewRows(rateColumns))

		_, err := repo.ListByAuthors(context.Background(), []string{"Bob", "Carol"}, "", "", now)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty author set skips the query", func(t *testing.T) {
		rates, err := repo.ListByAuthors(context.Background(), nil, "", "", now)
		assert.NoError(t, err)
		assert.Empty(t, rates)
	})
}

func TestRateRepository_Trending(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRateRepository(db)

	mock.ExpectQuery(`ARRAY_AGG\(game_name ORDER BY created_at ASC\)`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"game_name", "count"}).
			AddRow("Hades", 5).
			AddRow("Celeste", 3).
			AddRow("Outer Wilds", 1))

	trending, err := repo.Trending(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, trending, 3)
	assert.Equal(t, 1, trending[0].Rank)
	assert.Equal(t, "Hades", trending[0].GameName)
	assert.Equal(t, 3, trending[2].Rank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_Delete(t *testing.T) {
	t.Run("cascades engagement rows", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewRateRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "rates" WHERE id = $1`)).
			WithArgs("r-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		for _, table := range []string{"likes", "bookmarks", "comments", "notifications", "reports", "poll_votes"} {
			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "` + table + `" WHERE rate_id = $1`)).
				WithArgs("r-1").
				WillReturnResult(sqlmock.NewResult(0, 2))
		}
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), "r-1")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing rate rolls back", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewRateRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "rates" WHERE id = $1`)).
			WithArgs("gone").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), "gone")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
