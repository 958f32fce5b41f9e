package blog

import (
	"context"
	"sync"

	"study-booking/internal/apiclient"
	"study-booking/internal/data/entity"
	"study-booking/internal/dto/request"
	"study-booking/internal/loader"
	"study-booking/internal/skeleton"

	"go.uber.org/zap"
)

// RemoteBoard shows the API's post list and publishes new posts to it.
type RemoteBoard struct {
	client *apiclient.Client
	list   *loader.Loader[[]entity.Post]
	grace  *skeleton.Grace
	log    *zap.Logger

	mu         sync.Mutex
	draft      Draft
	publishErr error
}

func NewRemoteBoard(client *apiclient.Client, grace *skeleton.Grace, log *zap.Logger) *RemoteBoard {
	if log == nil {
		log = zap.NewNop()
	}
	b := &RemoteBoard{
		client: client,
		list:   loader.New(apiclient.Get[[]entity.Post](client), log),
		grace:  grace,
		log:    log.With(zap.String("component", "remote_blog")),
	}
	b.list.OnChange(func(r loader.Result[[]entity.Post]) {
		// A reload keeps the posts on screen; only an empty list arms the skeleton.
		b.grace.Set(len(r.Data) == 0)
	})
	return b
}

// Start fetches the post list.
func (b *RemoteBoard) Start() {
	b.list.SetPath(apiclient.BlogsPath)
}

// Wait blocks until the list request in flight has finished.
func (b *RemoteBoard) Wait() {
	b.list.Wait()
}

// Settle waits for the list request and then for the skeleton window to close,
// so Display reports the final state rather than the placeholder.
func (b *RemoteBoard) Settle(ctx context.Context) error {
	b.list.Wait()
	return b.grace.Wait(ctx)
}

func (b *RemoteBoard) Reload() {
	b.list.Reload()
}

func (b *RemoteBoard) Close() {
	b.list.Close()
	b.grace.Close()
}

func (b *RemoteBoard) Snapshot() loader.Result[[]entity.Post] {
	return b.list.Snapshot()
}

// Display is what the post list section should render right now.
func (b *RemoteBoard) Display() skeleton.Display {
	snap := b.list.Snapshot()
	return skeleton.View(b.grace.Show(), snap.Err, len(snap.Data) == 0)
}

func (b *RemoteBoard) Draft() Draft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draft
}

func (b *RemoteBoard) SetDraft(d Draft) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draft = d
}

// PublishErr is the error of the last failed Publish, cleared by a success.
func (b *RemoteBoard) PublishErr() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.publishErr
}

// Publish sends the draft to the API. On success the draft is cleared and the
// list reloaded; on failure the draft is kept and the list left alone.
func (b *RemoteBoard) Publish(ctx context.Context) (*entity.Post, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.draft.Blank() {
		return nil, ErrEmptyDraft
	}

	post, err := b.client.CreateBlog(ctx, request.CreatePostRequest{
		Title:   b.draft.Title,
		Content: b.draft.Content,
	})
	if err != nil {
		b.log.Warn("Publish failed", zap.Error(err))
		b.publishErr = err
		return nil, err
	}

	b.publishErr = nil
	b.draft = Draft{}
	b.list.Reload()
	return post, nil
}
