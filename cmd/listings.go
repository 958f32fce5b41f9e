package cmd

import (
	"context"

	"study-booking/internal/apiclient"
	"study-booking/internal/catalog"
	"study-booking/internal/data/entity"
	"study-booking/internal/loader"

	"go.uber.org/zap"
)

// Listings supplies the units shown by the list command.
type Listings interface {
	Units(ctx context.Context, category entity.Category) ([]entity.Unit, error)
	Close()
}

// CatalogListings serves the built-in rooms and classes.
type CatalogListings struct{}

func (CatalogListings) Units(_ context.Context, category entity.Category) ([]entity.Unit, error) {
	return catalog.ForCategory(category), nil
}

func (CatalogListings) Close() {}

// RemoteListings loads rooms and classes from the API, one loader per
// endpoint so a slow room listing never overwrites the class listing.
type RemoteListings struct {
	rooms   *loader.Loader[[]entity.Unit]
	classes *loader.Loader[[]entity.Unit]
}

func NewRemoteListings(client *apiclient.Client, log *zap.Logger) *RemoteListings {
	fetch := apiclient.Get[[]entity.Unit](client)
	return &RemoteListings{
		rooms:   loader.New(fetch, log),
		classes: loader.New(fetch, log),
	}
}

func (l *RemoteListings) Units(ctx context.Context, category entity.Category) ([]entity.Unit, error) {
	ld, path := l.rooms, apiclient.RoomsPath(category)
	if category == entity.CategoryNMCLE {
		ld, path = l.classes, apiclient.ClassesPath(category)
	}

	if ld.Path() == path {
		ld.Reload()
	} else {
		ld.SetPath(path)
	}

	done := make(chan struct{})
	go func() {
		ld.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	snap := ld.Snapshot()
	return snap.Data, snap.Err
}

func (l *RemoteListings) Close() {
	l.rooms.Close()
	l.classes.Close()
}
