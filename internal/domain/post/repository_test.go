package post

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewRepository(sqlx.NewDb(raw, "postgres")), mock
}

func TestCreateCommentBumpsCountInSameTx(t *testing.T) {
	repo, mock := newMockRepo(t)
	c := &Comment{ID: uuid.New(), PostID: uuid.New(), AuthorID: uuid.New(), Text: "hi", CreatedAt: time.Now()}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO post_comments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE posts SET comment_count").WithArgs(c.PostID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateComment(context.Background(), c))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommentRollsBackOnCountFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	c := &Comment{ID: uuid.New(), PostID: uuid.New(), AuthorID: uuid.New(), Text: "hi", CreatedAt: time.Now()}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO post_comments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE posts SET comment_count").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	require.Error(t, repo.CreateComment(context.Background(), c))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDMissing(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT .* FROM posts WHERE id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Nil(t, p)
}
