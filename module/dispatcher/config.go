package dispatcher

import (
	"time"
)

// Config configures how transactions are submitted.
type Config struct {
	// Timeout bounds a single submission attempt, dry run included.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	// Retries is the number of additional attempts after a failed submission.
	Retries uint `mapstructure:"retries"`
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration `mapstructure:"retry-delay" validate:"gt=0"`
	// DryRun simulates every transaction with a call before sending it.
	DryRun bool `mapstructure:"dry-run"`
	// RateLimit is the number of submissions per second, zero means unlimited.
	RateLimit float64 `mapstructure:"rate-limit" validate:"gte=0"`
	// RateBurst is the number of submissions allowed to exceed the rate at once.
	RateBurst int `mapstructure:"rate-burst" validate:"gte=0"`
	// BreakerFailures is the number of consecutive failed attempts that opens
	// the circuit breaker, zero disables it.
	BreakerFailures uint32 `mapstructure:"breaker-failures"`
	// BreakerTimeout is how long an open breaker rejects submissions.
	BreakerTimeout time.Duration `mapstructure:"breaker-timeout"`
}

func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		Retries:         0,
		RetryDelay:      time.Second,
		DryRun:          true,
		RateLimit:       0,
		RateBurst:       1,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}
