package config

import "errors"

var (
	ErrInvalidRedisDB     = errors.New("REDIS_DB must be a valid integer")
	ErrDatabaseURLMissing = errors.New("DATABASE_URL is required")
	ErrTickSecretMissing  = errors.New("TICK_SECRET is required")
	ErrLineTokenMissing   = errors.New("LINE_CHANNEL_TOKEN is required")
)
