package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/model"
	"github.com/aiprojectops/score-files/internal/service"
)

// Classifier adapts a vision Client to the batch classifier. Every failure
// is reported as a failed Outcome; Classify never panics or returns an error.
type Classifier struct {
	client      Client
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
	timeout     time.Duration
}

// ClassifierOptions tunes retries, pacing and per-call deadlines.
type ClassifierOptions struct {
	Retry     service.RetryOptions
	RateLimit int
	Timeout   time.Duration
}

// NewClassifier wraps client. A nil logger falls back to slog.Default.
func NewClassifier(client Client, opts ClassifierOptions, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	retryOpts := opts.Retry
	if retryOpts.MaxAttempts <= 0 {
		retryOpts = service.DefaultRetryOptions()
	}
	return &Classifier{
		client:      client,
		logger:      logger,
		rateLimiter: newRateLimiter(opts.RateLimit),
		retryOpts:   retryOpts,
		timeout:     opts.Timeout,
	}
}

// Classify identifies the crop shown in the referenced image.
func (c *Classifier) Classify(ctx context.Context, ref model.ImageRef) (outcome model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("classifier panicked", "file", ref.Filename, "panic", r)
			outcome = model.Failed(fmt.Errorf("%w: panic: %v", common.ErrAdapterFailure, r))
		}
	}()

	img, err := LoadImage(ref.Path)
	if err != nil {
		c.logger.Warn("failed to load image", "file", ref.Filename, "error", err)
		return model.Failed(fmt.Errorf("%w: %w", common.ErrAdapterFailure, err))
	}

	var resp ClassificationResponse
	err = common.WithRetry(ctx, func() error {
		if waitErr := c.rateLimiter.wait(ctx); waitErr != nil {
			return waitErr
		}
		callCtx, cancel := c.callContext(ctx)
		defer cancel()

		var callErr error
		resp, callErr = c.client.ClassifyImage(callCtx, img)
		return callErr
	}, c.retryOpts)
	if err != nil {
		c.logger.Warn("classification failed", "file", ref.Filename, "error", err)
		return model.Failed(fmt.Errorf("%w: %w", common.ErrAdapterFailure, err))
	}

	if len(resp.ExtraFields) > 0 {
		c.logger.Debug("ignoring extra answer fields",
			"file", ref.Filename,
			"fields", resp.ExtraFields)
	}
	c.logger.Debug("classified image",
		"file", ref.Filename,
		"category", resp.Category,
		"confidence", resp.Confidence)
	return model.Succeeded(resp.Category, resp.Confidence)
}

// Identify returns the full crop profile for a single image.
func (c *Classifier) Identify(ctx context.Context, path string) (model.CropProfile, error) {
	img, err := LoadImage(path)
	if err != nil {
		return model.CropProfile{}, err
	}

	var profile model.CropProfile
	err = common.WithRetry(ctx, func() error {
		if waitErr := c.rateLimiter.wait(ctx); waitErr != nil {
			return waitErr
		}
		callCtx, cancel := c.callContext(ctx)
		defer cancel()

		var callErr error
		profile, callErr = c.client.DescribeCrop(callCtx, img)
		return callErr
	}, c.retryOpts)
	if err != nil {
		return model.CropProfile{}, fmt.Errorf("%w: %w", common.ErrAdapterFailure, err)
	}
	return profile, nil
}

func (c *Classifier) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
