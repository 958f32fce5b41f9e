package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"study-booking/internal/data/entity"
	"study-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDB records Exec calls and answers QueryRow with a fixed error.
type fakeDB struct {
	database.PgxIface

	execSQL  []string
	execArgs [][]any
	execTag  string
	execErr  error
	rowErr   error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return pgconn.NewCommandTag(f.execTag), f.execErr
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: f.rowErr}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestPostRepositoryCreatePassesFields(t *testing.T) {
	db := &fakeDB{execTag: "INSERT 0 1"}
	repo := NewPostRepository(db, zap.NewNop())

	post := &entity.Post{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		Title:      "Exam tips",
		Content:    "Sleep well.",
	}
	require.NoError(t, repo.Create(context.Background(), post))

	require.Len(t, db.execArgs, 1)
	assert.Equal(t, []any{post.ID, "Exam tips", "Sleep well.", post.CreatedAt}, db.execArgs[0])
}

func TestPostRepositoryCreateWrapsError(t *testing.T) {
	boom := errors.New("connection reset")
	repo := NewPostRepository(&fakeDB{execErr: boom}, zap.NewNop())

	err := repo.Create(context.Background(), &entity.Post{BaseSimple: entity.BaseSimple{ID: uuid.New()}})
	assert.ErrorIs(t, err, boom)
}

func TestPostRepositoryDeleteMissingIsNotFound(t *testing.T) {
	repo := NewPostRepository(&fakeDB{execTag: "DELETE 0"}, zap.NewNop())

	err := repo.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPostRepositoryDelete(t *testing.T) {
	repo := NewPostRepository(&fakeDB{execTag: "DELETE 1"}, zap.NewNop())
	assert.NoError(t, repo.Delete(context.Background(), uuid.New()))
}

func TestUnitRepositoryFindByIDNoRows(t *testing.T) {
	repo := NewUnitRepository(&fakeDB{rowErr: pgx.ErrNoRows}, zap.NewNop())

	unit, err := repo.FindByID(context.Background(), "read-9")
	require.NoError(t, err)
	assert.Nil(t, unit)
}

func TestUnitRepositoryFindByIDError(t *testing.T) {
	boom := errors.New("timeout")
	repo := NewUnitRepository(&fakeDB{rowErr: boom}, zap.NewNop())

	_, err := repo.FindByID(context.Background(), "read-1")
	assert.ErrorIs(t, err, boom)
}
