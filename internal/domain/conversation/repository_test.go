package conversation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestAppendMessageUpdatesConversationInTx(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	repo := NewRepository(sqlx.NewDb(raw, "postgres"))

	now := time.Now()
	m := &Message{ID: uuid.New(), ConversationID: uuid.New(), Kind: KindUser, Text: strings.Repeat("x", 120), CreatedAt: now}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO messages").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE conversations").
		WithArgs(m.ConversationID, strings.Repeat("x", PreviewMaxLen), now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.AppendMessage(context.Background(), m))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendMessageMissingConversationRollsBack(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	repo := NewRepository(sqlx.NewDb(raw, "postgres"))

	m := &Message{ID: uuid.New(), ConversationID: uuid.New(), Kind: KindUser, Text: "hi", CreatedAt: time.Now()}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO messages").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE conversations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	require.Error(t, repo.AppendMessage(context.Background(), m))
	require.NoError(t, mock.ExpectationsWereMet())
}
