// Package service defines option types shared by the application services.
package service

import "time"

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryOptions performs a single attempt, matching a plain sequential
// run with no backoff.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:  1,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}
