// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// File and directory errors.
	ErrNotFound         = errors.New("not found")
	ErrUnreadableFormat = errors.New("unreadable format")
	ErrNoImages         = errors.New("no images found")

	// Classification errors.
	ErrAdapterFailure    = errors.New("classification failed")
	ErrNothingProcessed  = errors.New("no images were processed")
	ErrNothingToEvaluate = errors.New("nothing to evaluate")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
// Hint tells the operator what to do next.
type UserError struct {
	Err         error
	UserMessage string
	Hint        string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// NewUserErrorWithHint creates a user-friendly error carrying a next step.
func NewUserErrorWithHint(userMessage, hint string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Hint:        hint,
		Err:         err,
	}
}

// IsStageFatal reports whether err should stop the current pipeline stage
// cleanly rather than crash the process.
func IsStageFatal(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnreadableFormat) ||
		errors.Is(err, ErrNoImages) ||
		errors.Is(err, ErrNothingProcessed) ||
		errors.Is(err, ErrNothingToEvaluate)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
