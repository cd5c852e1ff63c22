package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	s, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultImageDir, s.Paths.Images)
	assert.Equal(t, DefaultAnswersPath, s.Paths.Answers)
	assert.Equal(t, DefaultPredictionsPath, s.Paths.Predictions)
	assert.Equal(t, "openai", s.LLM.Provider)
	assert.Equal(t, "sk-env", s.LLM.APIKey)
	assert.Equal(t, 1, s.LLM.MaxAttempts)
	assert.Equal(t, 60*time.Second, s.LLM.Timeout)
	assert.Equal(t, []string{"utf-8-sig", "utf-8", "cp949", "euc-kr"}, s.Encodings)
}

func TestLoad_ViperOverridesEnvironment(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "from-env")

	v := viper.New()
	v.Set("llm.provider", "Anthropic")
	v.Set("llm.anthropic_api_key", "from-config")
	v.Set("paths.images", "photos")
	v.Set("csv.encodings", []string{"utf-8", "shift_jis"})
	v.Set("llm.max_attempts", 4)

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", s.LLM.Provider)
	assert.Equal(t, "from-config", s.LLM.APIKey)
	assert.Equal(t, "photos", s.Paths.Images)
	assert.Equal(t, []string{"utf-8", "shift_jis"}, s.Encodings)
	assert.Equal(t, 4, s.LLM.MaxAttempts)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{name: "unknown provider", key: "llm.provider", val: "mystery"},
		{name: "unknown encoding", key: "csv.encodings", val: []string{"klingon"}},
		{name: "negative rate limit", key: "llm.rate_limit", val: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			_, err := Load(v)
			require.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	v := viper.New()
	v.Set("llm.provider", "gemini")
	s, err := Load(v)
	require.NoError(t, err)

	err = s.RequireAPIKey()
	require.ErrorIs(t, err, common.ErrMissingConfig)

	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.Hint, "GEMINI_API_KEY")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("CROPEVAL_TEST_DIR", "/srv/crops")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, filepath.Join(home, "data"), ExpandPath("~/data"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/srv/crops/img", ExpandPath("$CROPEVAL_TEST_DIR/img"))
}

func TestFileAndDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "answer.csv")
	require.NoError(t, os.WriteFile(file, []byte("filename,label\n"), 0o600))

	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(file))
	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing.csv")))
}
