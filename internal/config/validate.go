package config

func ValidateForRun(cfg *Config) error {
	if cfg.Postgres.DatabaseURL == "" {
		return ErrDatabaseURLMissing
	}
	if cfg.Reminder.TickSecret == "" {
		return ErrTickSecretMissing
	}
	if cfg.Line.ChannelToken == "" {
		return ErrLineTokenMissing
	}
	return nil
}
