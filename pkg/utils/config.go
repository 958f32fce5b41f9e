package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Store    StoreConfig
	Client   ClientConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// StoreConfig selects the key-value backend used by the booking front end.
type StoreConfig struct {
	Driver        string // memory, file, redis, postgres
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type ClientConfig struct {
	APIBaseURL    string
	SkeletonGrace time.Duration
}

type AdminConfig struct {
	TokenHash string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "study-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("STORE_DRIVER", "file")
	viper.SetDefault("STORE_PATH", "data/storage.json")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("SKELETON_GRACE_MS", 600)

	// .env is optional; the environment alone is enough
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Store: StoreConfig{
			Driver:        viper.GetString("STORE_DRIVER"),
			Path:          viper.GetString("STORE_PATH"),
			RedisAddr:     viper.GetString("REDIS_ADDR"),
			RedisPassword: viper.GetString("REDIS_PASSWORD"),
			RedisDB:       viper.GetInt("REDIS_DB"),
		},
		Client: ClientConfig{
			APIBaseURL:    viper.GetString("API_BASE_URL"),
			SkeletonGrace: time.Duration(viper.GetInt("SKELETON_GRACE_MS")) * time.Millisecond,
		},
		Admin: AdminConfig{
			TokenHash: viper.GetString("ADMIN_TOKEN_HASH"),
		},
	}

	return config, nil
}
