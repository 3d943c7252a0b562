package repository

import (
	"context"
	"regexp"
	"testing"

	"gameratez/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestEngagementRepository_Like(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		wantErr      error
	}{
		{name: "first like succeeds", rowsAffected: 1, wantErr: nil},
		{name: "duplicate like conflicts", rowsAffected: 0, wantErr: ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewEngagementRepository(db)

			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes (rate_id, username, created_at)`)).
				WithArgs("r-1", "alice").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			err := repo.Like(context.Background(), "r-1", "alice")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEngagementRepository_Unlike(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		wantErr      error
	}{
		{name: "existing like removed", rowsAffected: 1, wantErr: nil},
		{name: "missing like not found", rowsAffected: 0, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewEngagementRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE rate_id = $1 AND username = $2`)).
				WithArgs("r-1", "alice").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			mock.ExpectCommit()

			err := repo.Unlike(context.Background(), "r-1", "alice")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEngagementRepository_LikeCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes" WHERE rate_id = $1`)).
		WithArgs("r-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.LikeCount(context.Background(), "r-1")
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRepository_ListComments(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE rate_id = $1 ORDER BY created_at ASC`)).
		WithArgs("r-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "rate_id", "username", "body"}).
			AddRow("c-1", "r-1", "alice", "first").
			AddRow("c-2", "r-1", "bob", "second"))

	comments, err := repo.ListComments(context.Background(), "r-1")
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRepository_VotePoll(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "poll_votes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.VotePoll(context.Background(), &models.PollVote{
		RateID:      "r-1",
		Username:    "alice",
		OptionIndex: 2,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
