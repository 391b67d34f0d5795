// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server reads from the environment. A .env
// file, if present, is loaded into the environment by the entrypoint before
// Load runs.
type Config struct {
	HTTPAddr string

	PostgresDSN string

	RedisAddr string
	RedisDB   int

	TokenTTL time.Duration

	JanitorInterval time.Duration
	RoomIdleTTL     time.Duration
}

// Load resolves configuration from the environment with sane defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("PG_HOST", "localhost")
	v.SetDefault("PG_PORT", "5432")
	v.SetDefault("PG_DATABASE", "auxbattle")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TOKEN_EXPIRE_TIME", "72h")
	v.SetDefault("JANITOR_INTERVAL", "1m")
	v.SetDefault("ROOM_IDLE_TTL", "30m")

	tokenTTL, err := parseTTL(v.GetString("TOKEN_EXPIRE_TIME"))
	if err != nil {
		return nil, fmt.Errorf("parse TOKEN_EXPIRE_TIME: %w", err)
	}
	janitorInterval, err := time.ParseDuration(v.GetString("JANITOR_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("parse JANITOR_INTERVAL: %w", err)
	}
	idleTTL, err := time.ParseDuration(v.GetString("ROOM_IDLE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("parse ROOM_IDLE_TTL: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		v.GetString("POSTGRES_USER"),
		v.GetString("POSTGRES_PASSWORD"),
		v.GetString("PG_HOST"),
		v.GetString("PG_PORT"),
		v.GetString("PG_DATABASE"),
	)

	return &Config{
		HTTPAddr:        ":" + v.GetString("PORT"),
		PostgresDSN:     dsn,
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisDB:         v.GetInt("REDIS_DB"),
		TokenTTL:        tokenTTL,
		JanitorInterval: janitorInterval,
		RoomIdleTTL:     idleTTL,
	}, nil
}

// parseTTL treats "never" and "0" as no expiration.
func parseTTL(s string) (time.Duration, error) {
	if s == "never" || s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
