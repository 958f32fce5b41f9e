package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"study-booking/cmd"
	"study-booking/internal/data/repository"
	"study-booking/internal/wire"
	"study-booking/pkg/database"
	"study-booking/pkg/utils"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	flags := pflag.NewFlagSet("study-booking", pflag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: study-booking [serve|book] [flags]\n\n")
		flags.PrintDefaults()
	}
	storeDriver := flags.String("store", "", "key-value store for the book command: memory, file, redis or postgres")
	remote := flags.Bool("remote", false, "book command: load rooms, classes and posts from API_BASE_URL")
	flags.Parse(os.Args[1:])

	command := "serve"
	if flags.NArg() > 0 {
		command = flags.Arg(0)
	}

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "serve":
		err = serve(ctx, config)
	case "book":
		err = book(ctx, config, cmd.BookingOptions{StoreDriver: *storeDriver, Remote: *remote})
	default:
		flags.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func serve(ctx context.Context, config *utils.Config) error {
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug, os.Stdout)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, config, logger)

	if err := app.Service.Unit.SeedCatalog(ctx); err != nil {
		return err
	}

	return cmd.APIServer(ctx, app.Router, config.App.Port, logger)
}

// book keeps stdout for the console and logs to the rotated file only.
func book(ctx context.Context, config *utils.Config, opts cmd.BookingOptions) error {
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name+"-book", config.App.Debug, nil)
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	return cmd.RunBooking(ctx, config, opts, os.Stdin, os.Stdout, logger)
}
