package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultRateLimit, cfg.RateLimitPerMinute)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, defaultScrapboxBaseURL, cfg.Notes.BaseURL)
	assert.Equal(t, 90, cfg.Notes.WindowDays)
	assert.Equal(t, 10, cfg.Notes.MaxPages)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsDev())
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
port: 9000
env: production
debug: false
api_secret_key: "  s3cret "
rate_limit_per_minute: 5
allowed_origins: ["*.example.com", " ", "localhost:*"]
llm:
  provider: OpenAI
  model: gpt-4o-mini
  timeout: 15s
notes:
  base_url: http://notes.local/api/
  timeout: 3s
datastore:
  url: http://db.local/
  anon_key: anon
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.False(t, cfg.Debug)
	assert.Equal(t, "s3cret", cfg.APISecretKey)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"*.example.com", "localhost:*"}, cfg.AllowedOrigins)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "http://notes.local/api", cfg.Notes.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Notes.Timeout)
	assert.Equal(t, "http://db.local", cfg.DataStore.URL)
	assert.Equal(t, defaultDataStoreTimeout, cfg.DataStore.Timeout)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "prot: 1\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadValidates(t *testing.T) {
	_, err := Load(writeConfig(t, "port: 70000\n"))
	assert.ErrorContains(t, err, "invalid port")

	_, err = Load(writeConfig(t, "rate_limit_per_minute: -1\n"))
	assert.ErrorContains(t, err, "rate_limit_per_minute")

	_, err = Load(writeConfig(t, "llm:\n  provider: cohere\n"))
	assert.ErrorContains(t, err, "llm.provider")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "port: 9000\napi_secret_key: fromfile\n")
	t.Setenv("PORT", "9100")
	t.Setenv("API_SECRET_KEY", "fromenv")
	t.Setenv("GEMINI_API_KEY", "gk")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "7")
	t.Setenv("DEBUG", "False")
	t.Setenv("SUPABASE_URL", "https://x.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "fromenv", cfg.APISecretKey)
	assert.Equal(t, "gk", cfg.LLM.APIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 7, cfg.RateLimitPerMinute)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "https://x.supabase.co", cfg.DataStore.URL)
	assert.Equal(t, "anon", cfg.DataStore.AnonKey)
}

func TestApplyEnvIgnoresBadNumbers(t *testing.T) {
	cfg := defaultAppConfig()
	env := map[string]string{"PORT": "abc", "LLM_PROVIDER": "anthropic"}
	applyEnv(&cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
}

func TestLLMAPIKeyWinsOverGeminiKey(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"gemini only", map[string]string{"GEMINI_API_KEY": "gk"}, "gk"},
		{"generic only", map[string]string{"LLM_API_KEY": "sk"}, "sk"},
		{"both", map[string]string{"LLM_PROVIDER": "openai", "LLM_API_KEY": "sk", "GEMINI_API_KEY": "gk"}, "sk"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultAppConfig()
			applyEnv(&cfg, func(k string) (string, bool) {
				v, ok := tc.env[k]
				return v, ok
			})
			assert.Equal(t, tc.want, cfg.LLM.APIKey)
		})
	}
}

func TestTrustedProxies(t *testing.T) {
	cfg, err := Load(writeConfig(t, "trusted_proxies:\n  - 10.0.0.0/8\n  - \" \"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "127.0.0.1, 192.168.0.0/16")
	cfg, err = Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
}
