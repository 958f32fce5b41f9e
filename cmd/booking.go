package cmd

import (
	"context"
	"fmt"
	"io"

	"study-booking/internal/apiclient"
	"study-booking/internal/blog"
	"study-booking/internal/skeleton"
	"study-booking/pkg/kvstore"
	"study-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingOptions struct {
	// StoreDriver overrides STORE_DRIVER when set.
	StoreDriver string
	// Remote loads listings and posts from the API at API_BASE_URL instead
	// of the built-in catalog and the local post list.
	Remote bool
}

// RunBooking opens the configured key-value store and runs the console until
// the user quits.
func RunBooking(ctx context.Context, config *utils.Config, opts BookingOptions, in io.Reader, out io.Writer, log *zap.Logger) error {
	storeConfig := config.Store
	if opts.StoreDriver != "" {
		storeConfig.Driver = opts.StoreDriver
	}

	store, closeStore, err := kvstore.Open(storeConfig, config.Database)
	if err != nil {
		return fmt.Errorf("open %s store: %w", storeConfig.Driver, err)
	}
	defer closeStore()

	log.Info("Booking console started",
		zap.String("store", storeConfig.Driver),
		zap.Bool("remote", opts.Remote),
	)

	var (
		listings Listings = CatalogListings{}
		local    *blog.LocalBoard
		remote   *blog.RemoteBoard
	)
	if opts.Remote {
		client := apiclient.New(config.Client.APIBaseURL)
		listings = NewRemoteListings(client, log)
		remote = blog.NewRemoteBoard(client, skeleton.New(config.Client.SkeletonGrace), log)
		defer remote.Close()
	} else {
		local = blog.NewLocalBoard(ctx, store, log)
	}
	defer listings.Close()

	return NewConsole(store, listings, local, remote, in, out, log).Run(ctx)
}
