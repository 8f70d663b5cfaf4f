package config

import (
	"os"
	"strconv"
	"time"
)

const (
	tickSecretEnv      = "TICK_SECRET"
	cadenceMinutesEnv  = "REMINDER_CADENCE_MINUTES"
	defaultTimezoneEnv = "DEFAULT_TIMEZONE"
	maxRunSecondsEnv   = "MAX_RUN_DURATION_SECONDS"
	ackPhraseEnv       = "ACK_PHRASE"
	tickCronEnv        = "TICK_CRON"

	defaultCadenceMinutes = 30
	defaultZone           = "Asia/Bangkok"
	defaultMaxRunSeconds  = 55
	defaultAckPhrase      = "ทานยาแล้ว"
)

type ReminderConfig struct {
	// TickSecret authorizes the tick entry point.
	TickSecret string
	// CadenceMinutes is the minimum interval between repeated reminders
	// for the same unresolved slot.
	CadenceMinutes int
	// DefaultTimezone applies to prescriptions that carry no zone.
	DefaultTimezone string
	// MaxRunDurationSeconds is the staleness valve for the run lease.
	MaxRunDurationSeconds int
	// AckPhrase is the inbound text that records a dose as taken.
	AckPhrase string
	// TickCron, when set, runs ticks from an in-process scheduler
	// instead of relying solely on an external invoker.
	TickCron string
}

func LoadReminderConfig() *ReminderConfig {
	cadence := defaultCadenceMinutes
	if v := os.Getenv(cadenceMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cadence = parsed
		}
	}

	zone := os.Getenv(defaultTimezoneEnv)
	if zone == "" {
		zone = defaultZone
	}

	maxRun := defaultMaxRunSeconds
	if v := os.Getenv(maxRunSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRun = parsed
		}
	}

	ackPhrase := os.Getenv(ackPhraseEnv)
	if ackPhrase == "" {
		ackPhrase = defaultAckPhrase
	}

	return &ReminderConfig{
		TickSecret:            os.Getenv(tickSecretEnv),
		CadenceMinutes:        cadence,
		DefaultTimezone:       zone,
		MaxRunDurationSeconds: maxRun,
		AckPhrase:             ackPhrase,
		TickCron:              os.Getenv(tickCronEnv),
	}
}

func (c *ReminderConfig) Cadence() time.Duration {
	return time.Duration(c.CadenceMinutes) * time.Minute
}

func (c *ReminderConfig) MaxRunDuration() time.Duration {
	return time.Duration(c.MaxRunDurationSeconds) * time.Second
}
