package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aiprojectops/score-files/internal/config"
	"github.com/aiprojectops/score-files/internal/engine"
	"github.com/aiprojectops/score-files/internal/llm"
	"github.com/aiprojectops/score-files/internal/service"
)

// retryOptions maps llm.max_attempts and llm.retry_delay onto the retry
// policy. Attempts count the first call.
func retryOptions(settings *config.Settings) service.RetryOptions {
	retry := service.DefaultRetryOptions()
	retry.MaxAttempts = settings.LLM.MaxAttempts
	retry.InitialDelay = settings.LLM.RetryDelay
	return retry
}

// createLLMClassifier builds the vision classifier described by settings.
// It is shared by classify, run and identify.
func createLLMClassifier(ctx context.Context, settings *config.Settings, logger *slog.Logger) (*llm.Classifier, error) {
	if err := settings.RequireAPIKey(); err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, llm.Config{
		Provider:      settings.LLM.Provider,
		APIKey:        settings.LLM.APIKey,
		Model:         settings.LLM.Model,
		BaseURL:       settings.LLM.BaseURL,
		LabelLanguage: settings.LLM.LabelLanguage,
		MaxTokens:     settings.LLM.MaxTokens,
		Timeout:       settings.LLM.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	retry := retryOptions(settings)

	logger.Debug("Created vision classifier",
		"provider", settings.LLM.Provider,
		"model", settings.LLM.Model,
		"max_attempts", retry.MaxAttempts,
		"rate_limit", settings.LLM.RateLimit)

	return llm.NewClassifier(client, llm.ClassifierOptions{
		Retry:     retry,
		RateLimit: settings.LLM.RateLimit,
		Timeout:   settings.LLM.Timeout,
	}, logger), nil
}

// newLLMClassifier is the classifierFactory used outside tests.
func newLLMClassifier(ctx context.Context, settings *config.Settings, logger *slog.Logger) (engine.ImageClassifier, error) {
	classifier, err := createLLMClassifier(ctx, settings, logger)
	if err != nil {
		return nil, err
	}
	return classifier, nil
}
