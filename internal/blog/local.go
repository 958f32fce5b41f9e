// Package blog keeps the blog section's posts, either in the local kvstore
// (LocalBoard) or in the remote API (RemoteBoard).
package blog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"study-booking/internal/data/entity"
	"study-booking/internal/state"
	"study-booking/pkg/kvstore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostsKey is the store key of the local post list.
const PostsKey = "posts"

var ErrEmptyDraft = errors.New("title and content are required")

type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (d Draft) Blank() bool {
	return strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == ""
}

// LocalBoard stores posts newest first under PostsKey.
type LocalBoard struct {
	posts *state.Keyed[[]entity.Post]
	now   func() time.Time

	mu    sync.Mutex
	draft Draft
}

func NewLocalBoard(ctx context.Context, store kvstore.Store, log *zap.Logger) *LocalBoard {
	posts := state.New(store, PostsKey, []entity.Post{}, log)
	posts.Activate(ctx)
	return &LocalBoard{posts: posts, now: time.Now}
}

func (b *LocalBoard) Draft() Draft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draft
}

func (b *LocalBoard) SetDraft(d Draft) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draft = d
}

// Posts returns a copy of the list, newest first.
func (b *LocalBoard) Posts() []entity.Post {
	return append([]entity.Post(nil), b.posts.Value()...)
}

// Publish prepends the draft as a new post and clears the draft.
func (b *LocalBoard) Publish(ctx context.Context) (entity.Post, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.draft.Blank() {
		return entity.Post{}, ErrEmptyDraft
	}

	post := entity.Post{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: b.now().UTC(),
		},
		Title:   b.draft.Title,
		Content: b.draft.Content,
	}
	b.posts.Update(ctx, func(list []entity.Post) []entity.Post {
		return append([]entity.Post{post}, list...)
	})
	b.draft = Draft{}
	return post, nil
}

// Remove deletes the post with id and reports whether it existed.
func (b *LocalBoard) Remove(ctx context.Context, id uuid.UUID) bool {
	found := false
	b.posts.Update(ctx, func(list []entity.Post) []entity.Post {
		out := make([]entity.Post, 0, len(list))
		for _, p := range list {
			if p.ID == id {
				found = true
				continue
			}
			out = append(out, p)
		}
		return out
	})
	return found
}
