package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aiprojectops/score-files/internal/model"
)

// errEmptyResponse is returned when the model produced no text.
var errEmptyResponse = errors.New("empty response")

// decodeJSONObject unmarshals the single JSON object in content into target.
// Code fences and prose around the object are stripped first.
func decodeJSONObject(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errEmptyResponse
	}

	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return nil
	}

	extracted := extractJSONObject(stripCodeFences(trimmed))
	if extracted == "" || extracted == trimmed {
		return fmt.Errorf("%w (response: %s)", directErr, snippet(trimmed))
	}
	if err := json.Unmarshal([]byte(extracted), target); err != nil {
		return fmt.Errorf("%w (response: %s)", err, snippet(trimmed))
	}
	return nil
}

// stripCodeFences removes a surrounding ``` or ```json fence.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := strings.TrimLeft(trimmed[3:], " \t")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		// drop the language tag line
		body = body[nl+1:]
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}

func snippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return clean
}

// parseClassification extracts category and confidence from the model's
// answer. "crop" is accepted as an alias for "category".
func parseClassification(content string) (ClassificationResponse, error) {
	var jsonResp struct {
		Confidence *float64 `json:"confidence"`
		Category   string   `json:"category"`
		Crop       string   `json:"crop"`
	}
	if err := decodeJSONObject(content, &jsonResp); err != nil {
		return ClassificationResponse{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	category := strings.TrimSpace(jsonResp.Category)
	if category == "" {
		category = strings.TrimSpace(jsonResp.Crop)
	}
	if category == "" {
		return ClassificationResponse{}, fmt.Errorf("no category found in response: %s", snippet(content))
	}
	if category == model.ErrorLabel {
		return ClassificationResponse{}, fmt.Errorf("model returned reserved category %q", model.ErrorLabel)
	}
	if jsonResp.Confidence == nil {
		return ClassificationResponse{}, fmt.Errorf("no confidence found in response: %s", snippet(content))
	}

	return ClassificationResponse{
		Category:    category,
		Confidence:  model.ClampConfidence(*jsonResp.Confidence),
		ExtraFields: extraFields(content),
	}, nil
}

// extraFields returns the keys of the answer object that are not part of
// the classification contract.
func extraFields(content string) []string {
	var fields map[string]json.RawMessage
	if err := decodeJSONObject(content, &fields); err != nil {
		return nil
	}
	var extra []string
	for key := range fields {
		switch key {
		case "category", "confidence", "crop":
		default:
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return extra
}

// parseCropProfile decodes the detailed crop description.
func parseCropProfile(content string) (model.CropProfile, error) {
	var profile model.CropProfile
	if err := decodeJSONObject(content, &profile); err != nil {
		return model.CropProfile{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		return model.CropProfile{}, fmt.Errorf("no crop name found in response: %s", snippet(content))
	}
	profile.Confidence = model.ClampConfidence(profile.Confidence)
	return profile, nil
}
