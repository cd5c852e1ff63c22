package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/tabular"
	"github.com/spf13/viper"
)

// Default locations, relative to the working directory.
const (
	DefaultImageDir        = "img"
	DefaultAnswersPath     = "data/answer.csv"
	DefaultPredictionsPath = "data/predictions.csv"
	DefaultProvider        = "openai"
)

// Paths holds the pipeline's input and output locations.
type Paths struct {
	Images      string
	Answers     string
	Predictions string
}

// LLM holds the vision model settings.
type LLM struct {
	Provider      string
	Model         string
	APIKey        string
	BaseURL       string
	LabelLanguage string
	MaxTokens     int
	MaxAttempts   int
	RateLimit     int
	Timeout       time.Duration
	RetryDelay    time.Duration
}

// Settings is the resolved configuration for one invocation.
type Settings struct {
	Paths     Paths
	LLM       LLM
	Encodings []string
}

// providerKeyEnv names the conventional API key variable per provider.
var providerKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// Load resolves settings from v. It follows this precedence:
// 1. Viper configuration (config file, CROPEVAL_ env vars, bound flags)
// 2. Provider environment variables (OPENAI_API_KEY and friends)
// 3. Default values
func Load(v *viper.Viper) (*Settings, error) {
	if v == nil {
		v = viper.GetViper()
	}

	s := &Settings{
		Paths: Paths{
			Images:      ExpandPath(stringOr(v.GetString("paths.images"), DefaultImageDir)),
			Answers:     ExpandPath(stringOr(v.GetString("paths.answers"), DefaultAnswersPath)),
			Predictions: ExpandPath(stringOr(v.GetString("paths.predictions"), DefaultPredictionsPath)),
		},
		Encodings: v.GetStringSlice("csv.encodings"),
		LLM: LLM{
			Provider:      strings.ToLower(stringOr(v.GetString("llm.provider"), DefaultProvider)),
			Model:         v.GetString("llm.model"),
			BaseURL:       v.GetString("llm.base_url"),
			LabelLanguage: v.GetString("llm.label_language"),
			MaxTokens:     v.GetInt("llm.max_tokens"),
			MaxAttempts:   v.GetInt("llm.max_attempts"),
			RateLimit:     v.GetInt("llm.rate_limit"),
			Timeout:       v.GetDuration("llm.timeout"),
			RetryDelay:    v.GetDuration("llm.retry_delay"),
		},
	}

	if len(s.Encodings) == 0 {
		s.Encodings = tabular.DefaultEncodings()
	}

	s.LLM.APIKey = v.GetString(fmt.Sprintf("llm.%s_api_key", s.LLM.Provider))
	if s.LLM.APIKey == "" {
		if envName, ok := providerKeyEnv[s.LLM.Provider]; ok {
			s.LLM.APIKey = os.Getenv(envName)
		}
	}

	if s.LLM.MaxAttempts <= 0 {
		s.LLM.MaxAttempts = 1
	}
	if s.LLM.RetryDelay <= 0 {
		s.LLM.RetryDelay = time.Second
	}
	if s.LLM.Timeout <= 0 {
		s.LLM.Timeout = 60 * time.Second
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks values that do not depend on which command runs.
func (s *Settings) Validate() error {
	if _, ok := providerKeyEnv[s.LLM.Provider]; !ok {
		return fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, s.LLM.Provider)
	}
	if _, err := tabular.ResolveEncodings(s.Encodings); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	if s.LLM.MaxTokens < 0 {
		return fmt.Errorf("%w: llm.max_tokens must not be negative", common.ErrInvalidConfig)
	}
	if s.LLM.RateLimit < 0 {
		return fmt.Errorf("%w: llm.rate_limit must not be negative", common.ErrInvalidConfig)
	}
	return nil
}

// RequireAPIKey fails when the selected provider has no key configured.
func (s *Settings) RequireAPIKey() error {
	if strings.TrimSpace(s.LLM.APIKey) != "" {
		return nil
	}
	return common.NewUserErrorWithHint(
		fmt.Sprintf("%s API key is not set", s.LLM.Provider),
		fmt.Sprintf("set llm.%s_api_key in the config file or export %s", s.LLM.Provider, providerKeyEnv[s.LLM.Provider]),
		common.ErrMissingConfig,
	)
}

func stringOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
