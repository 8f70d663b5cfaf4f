package config

import "os"

const databaseURLEnv = "DATABASE_URL"

type PostgresConfig struct {
	DatabaseURL string
}

func LoadPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		DatabaseURL: os.Getenv(databaseURLEnv),
	}
}
