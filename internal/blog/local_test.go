package blog

import (
	"context"
	"testing"
	"time"

	"study-booking/internal/data/entity"
	"study-booking/internal/state"
	"study-booking/pkg/kvstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBoardPublishPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	board := NewLocalBoard(ctx, store, nil)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	board.now = func() time.Time { return now }

	board.SetDraft(Draft{Title: "First", Content: "hello"})
	first, err := board.Publish(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Equal(t, now, first.CreatedAt)
	assert.Equal(t, Draft{}, board.Draft())

	board.SetDraft(Draft{Title: "Second", Content: "world"})
	_, err = board.Publish(ctx)
	require.NoError(t, err)

	posts := board.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, "Second", posts[0].Title)
	assert.Equal(t, "First", posts[1].Title)

	stored := state.Load(ctx, store, PostsKey, []entity.Post(nil))
	assert.Equal(t, posts, stored)

	remounted := NewLocalBoard(ctx, store, nil)
	assert.Equal(t, posts, remounted.Posts())
}

func TestLocalBoardRejectsBlankDraft(t *testing.T) {
	ctx := context.Background()
	board := NewLocalBoard(ctx, kvstore.NewMemory(), nil)

	for _, d := range []Draft{{}, {Title: "  ", Content: "x"}, {Title: "x", Content: "\n\t"}} {
		board.SetDraft(d)
		_, err := board.Publish(ctx)
		assert.ErrorIs(t, err, ErrEmptyDraft)
		assert.Equal(t, d, board.Draft(), "draft is kept")
	}
	assert.Empty(t, board.Posts())
}

func TestLocalBoardRemove(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	board := NewLocalBoard(ctx, store, nil)

	board.SetDraft(Draft{Title: "a", Content: "a"})
	a, _ := board.Publish(ctx)
	board.SetDraft(Draft{Title: "b", Content: "b"})
	b, _ := board.Publish(ctx)

	assert.True(t, board.Remove(ctx, a.ID))
	assert.False(t, board.Remove(ctx, a.ID))

	posts := board.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, b.ID, posts[0].ID)
	assert.Len(t, NewLocalBoard(ctx, store, nil).Posts(), 1)
}
