package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const geminiDefaultModel = "gemini-2.0-flash"

// geminiClient implements backend with the Gemini generateContent API.
type geminiClient struct {
	client *genai.Client
	model  string
}

// newGeminiClient creates a new Gemini API client.
func newGeminiClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = geminiDefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newVisionClient(&geminiClient{client: client, model: model}, cfg, defaultMaxTokens), nil
}

func (c *geminiClient) complete(ctx context.Context, req visionRequest) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(req.Image.Data, req.Image.MediaType),
			genai.NewPartFromText(req.User),
		}, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		MaxOutputTokens:   int32(req.MaxTokens),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", statusError("Gemini", apiErr.Code, apiErr.Message)
		}
		return "", transportError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in Gemini response")
	}
	return text, nil
}
