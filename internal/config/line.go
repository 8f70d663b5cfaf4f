package config

import "os"

const (
	lineChannelTokenEnv  = "LINE_CHANNEL_TOKEN"
	lineChannelSecretEnv = "LINE_CHANNEL_SECRET"
)

type LineConfig struct {
	ChannelToken string
	// ChannelSecret verifies webhook signatures; verification is skipped
	// when empty (local development).
	ChannelSecret string
}

func LoadLineConfig() *LineConfig {
	return &LineConfig{
		ChannelToken:  os.Getenv(lineChannelTokenEnv),
		ChannelSecret: os.Getenv(lineChannelSecretEnv),
	}
}
