package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aiprojectops/score-files/internal/model"
)

// Client defines the interface for vision model providers.
type Client interface {
	ClassifyImage(ctx context.Context, img Image) (ClassificationResponse, error)
	DescribeCrop(ctx context.Context, img Image) (model.CropProfile, error)
}

// ClassificationResponse contains the model's classification result.
type ClassificationResponse struct {
	Category    string
	Confidence  float64
	// ExtraFields lists answer keys other than category and confidence,
	// sorted. They are ignored.
	ExtraFields []string
}

// Config holds configuration for a vision model client.
type Config struct {
	HTTPClient    *http.Client
	Provider      string
	APIKey        string
	Model         string
	BaseURL       string
	LabelLanguage string
	MaxTokens     int
	Timeout       time.Duration
}

// Image is the content of one image inlined into a request.
type Image struct {
	MediaType string
	Data      []byte
}

// LoadImage reads the file at path and detects its media type.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("image %s is empty", filepath.Base(path))
	}
	return Image{Data: data, MediaType: detectMediaType(path, data)}, nil
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURI returns the image as a data: URI.
func (i Image) DataURI() string {
	return "data:" + i.MediaType + ";base64," + i.Base64()
}

func detectMediaType(path string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); strings.HasPrefix(byExt, "image/") {
		return byExt
	}
	return "image/jpeg"
}
