package kvstore

import (
	"context"
	"fmt"
	"strings"

	"study-booking/pkg/database"
	"study-booking/pkg/utils"

	"github.com/spf13/afero"
)

// Open builds the store selected by cfg.Driver. The returned close function
// releases any connection the store owns and is never nil.
func Open(cfg utils.StoreConfig, dbConfig utils.DatabaseConfig) (Store, func(), error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemory(), func() {}, nil

	case "file":
		if cfg.Path == "" {
			return nil, nil, fmt.Errorf("kvstore: file driver needs a path")
		}
		return NewFile(afero.NewOsFs(), cfg.Path), func() {}, nil

	case "redis":
		client, err := NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return NewRedis(client, "studyhub:"), func() { client.Close() }, nil

	case "postgres":
		db, err := database.InitDB(dbConfig)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(context.Background(), db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return NewPostgres(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("kvstore: unknown driver %q", cfg.Driver)
	}
}
