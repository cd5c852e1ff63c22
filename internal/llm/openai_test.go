package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiprojectops/score-files/internal/common"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func writeTestImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))
	return path
}

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":    "chatcmpl-1",
		"model": "gpt-4o-mini",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
	})
	return string(body)
}

func newTestOpenAIClient(t *testing.T, url string) Client {
	t.Helper()
	client, err := NewClient(context.Background(), Config{
		Provider: "openai",
		APIKey:   "test-key",
		BaseURL:  url,
	})
	require.NoError(t, err)
	return client
}

func TestOpenAIClient_ClassifyImage(t *testing.T) {
	var captured openAIRequest
	var rawBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		rawBody = string(body)
		require.NoError(t, json.Unmarshal(body, &captured))
		_, _ = io.WriteString(w, completionBody(`{"category": "사과", "confidence": 0.93}`))
	}))
	defer server.Close()

	path := writeTestImage(t, "secret_apple_name.png")
	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MediaType)

	resp, err := newTestOpenAIClient(t, server.URL).ClassifyImage(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "사과", resp.Category)
	assert.InDelta(t, 0.93, resp.Confidence, 1e-9)

	assert.Equal(t, openAIDefaultModel, captured.Model)
	assert.Equal(t, defaultMaxTokens, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Contains(t, rawBody, "data:image/png;base64,")
	assert.NotContains(t, rawBody, "secret_apple_name")
	assert.Contains(t, rawBody, "Korean")
}

func TestOpenAIClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantRetryable bool
		wantRateLimit bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantRetryable: true, wantRateLimit: true},
		{name: "server error", status: http.StatusBadGateway, wantRetryable: true},
		{name: "bad request", status: http.StatusBadRequest},
		{name: "unauthorized", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":{"message":"nope"}}`)
			}))
			defer server.Close()

			_, err := newTestOpenAIClient(t, server.URL).ClassifyImage(context.Background(), Image{MediaType: "image/png", Data: pngHeader})
			require.Error(t, err)
			assert.Equal(t, tt.wantRetryable, common.IsRetryable(err))
			assert.Equal(t, tt.wantRateLimit, strings.Contains(err.Error(), common.ErrRateLimit.Error()))
		})
	}
}

func TestOpenAIClient_DescribeCrop(t *testing.T) {
	var captured openAIRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = io.WriteString(w, completionBody(`{"name": "딸기", "name_en": "Strawberry", "confidence": 0.9, "famous_regions": ["논산"]}`))
	}))
	defer server.Close()

	profile, err := newTestOpenAIClient(t, server.URL).DescribeCrop(context.Background(), Image{MediaType: "image/png", Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, "딸기", profile.Name)
	assert.Equal(t, []string{"논산"}, profile.FamousRegions)
	assert.Equal(t, defaultMaxTokens+profileExtraTokens, captured.MaxTokens)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewClient(context.Background(), Config{Provider: "anthropic"})
	assert.Error(t, err)

	_, err = NewClient(context.Background(), Config{Provider: "gemini"})
	assert.Error(t, err)

	_, err = NewClient(context.Background(), Config{Provider: "mystery", APIKey: "k"})
	assert.Error(t, err)

	client, err := NewClient(context.Background(), Config{Provider: "Anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestLoadImage(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.jpg")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = LoadImage(empty)
	assert.Error(t, err)

	unknown := filepath.Join(t.TempDir(), "photo.jpeg")
	require.NoError(t, os.WriteFile(unknown, []byte("not really an image"), 0o600))
	img, err := LoadImage(unknown)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MediaType)
}
