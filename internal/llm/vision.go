package llm

import (
	"context"

	"github.com/aiprojectops/score-files/internal/model"
)

// backend sends one image request to a provider and returns the raw text.
type backend interface {
	complete(ctx context.Context, req visionRequest) (string, error)
}

// visionClient implements Client on top of a provider backend.
type visionClient struct {
	backend   backend
	language  string
	maxTokens int
}

func newVisionClient(b backend, cfg Config, defaultMaxTokens int) *visionClient {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &visionClient{
		backend:   b,
		language:  languageOrDefault(cfg.LabelLanguage),
		maxTokens: maxTokens,
	}
}

// ClassifyImage asks the model for a category and confidence.
func (c *visionClient) ClassifyImage(ctx context.Context, img Image) (ClassificationResponse, error) {
	content, err := c.backend.complete(ctx, visionRequest{
		System:    classificationSystemPrompt(c.language),
		User:      classificationUserPrompt(c.language),
		Image:     img,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return ClassificationResponse{}, err
	}
	return parseClassification(content)
}

// DescribeCrop asks the model for a full crop profile.
func (c *visionClient) DescribeCrop(ctx context.Context, img Image) (model.CropProfile, error) {
	content, err := c.backend.complete(ctx, visionRequest{
		System:    profileSystemPrompt(c.language),
		User:      profileUserPrompt(),
		Image:     img,
		MaxTokens: c.maxTokens + profileExtraTokens,
	})
	if err != nil {
		return model.CropProfile{}, err
	}
	return parseCropProfile(content)
}

// profileExtraTokens leaves room for the longer profile answer.
const profileExtraTokens = 200
