// Package retry provides retry strategies for transient RPC failures.
package retry

import (
	"context"
	"log/slog"
)

// Strategy defines the interface for retry strategies.
type Strategy interface {
	// Execute runs the operation with the configured retry logic.
	Execute(ctx context.Context, operation Operation) error

	// Name returns the name of the strategy for logging.
	Name() string
}

// Operation is a function that can be retried.
type Operation func() error

// NewStrategy creates a retry strategy based on configuration.
func NewStrategy(config Config) Strategy {
	if !config.Enabled {
		return NewNoRetryStrategy()
	}

	slog.Debug("retry enabled",
		"max_retries", config.MaxRetries,
		"initial_delay", config.InitialDelay,
		"max_delay", config.MaxDelay,
	)

	return NewExponentialBackoffStrategy(
		config.MaxRetries,
		config.InitialDelay,
		config.MaxDelay,
	)
}
