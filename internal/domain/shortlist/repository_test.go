package shortlist

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewRepository(sqlx.NewDb(raw, "postgres")), mock
}

func sampleShortlist() *Shortlist {
	return &Shortlist{
		ID:        uuid.New(),
		TeenID:    uuid.New(),
		ParentID:  uuid.New(),
		PostID:    uuid.New(),
		Note:      "can we book this?",
		CreatedAt: time.Now().UTC(),
	}
}

func TestCreateOrGetInsertsNewRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	s := sampleShortlist()

	mock.ExpectExec("INSERT INTO shortlists").
		WithArgs(s.ID, s.TeenID, s.ParentID, s.PostID, s.Note, s.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, created, err := repo.CreateOrGet(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, s.ID, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrGetReturnsExistingOnConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	s := sampleShortlist()
	existingID := uuid.New()

	mock.ExpectExec("INSERT INTO shortlists").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, teen_id, parent_id, post_id, note, created_at").
		WithArgs(s.TeenID, s.PostID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "teen_id", "parent_id", "post_id", "note", "created_at"}).
			AddRow(existingID.String(), s.TeenID.String(), s.ParentID.String(), s.PostID.String(), "first note", s.CreatedAt))

	got, created, err := repo.CreateOrGet(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existingID, got.ID)
	assert.Equal(t, "first note", got.Note)
	require.NoError(t, mock.ExpectationsWereMet())
}
