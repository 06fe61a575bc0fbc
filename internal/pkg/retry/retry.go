package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 3
	defaultMaxDelay = 2 * time.Second
	defaultDelay    = 100 * time.Millisecond
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"3"`
	Delay    time.Duration `env:"DELAY" envDefault:"200ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

// Do runs fn with the configured backoff until it succeeds, the context is done,
// or retryIf reports the error as permanent.
// A nil config or one with zero attempts falls back to DefaultRetryConfig.
func Do(ctx context.Context, rc *RetryConfig, retryIf func(error) bool, fn func() error) error {
	if rc == nil || rc.Attempts == 0 {
		rc = DefaultRetryConfig()
	}

	opts := append(rc.ToRetryOptions(),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.DelayType(retry.BackOffDelay),
	)
	if retryIf != nil {
		opts = append(opts, retry.RetryIf(retryIf))
	}

	return retry.Do(fn, opts...)
}
