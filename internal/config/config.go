package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port               int             `yaml:"port"`
	Env                string          `yaml:"env"` // "development" | "production"
	Debug              bool            `yaml:"debug"`
	LogDir             string          `yaml:"log_dir"`
	AllowedOrigins     []string        `yaml:"allowed_origins"`
	TrustedProxies     []string        `yaml:"trusted_proxies"` // empty: client IP is the socket peer
	APISecretKey       string          `yaml:"api_secret_key"`
	RateLimitPerMinute int             `yaml:"rate_limit_per_minute"`
	RedisURL           string          `yaml:"redis_url"`
	LLM                LLMConfig       `yaml:"llm"`
	Notes              NotesConfig     `yaml:"notes"`
	DataStore          DataStoreConfig `yaml:"datastore"`
}

// LLMConfig selects and configures the generative-text backend.
type LLMConfig struct {
	Provider string        `yaml:"provider"` // gemini | openai | anthropic
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// NotesConfig configures the Scrapbox client.
type NotesConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	WindowDays int           `yaml:"window_days"`
	MaxPages   int           `yaml:"max_pages"`
}

// DataStoreConfig configures the Supabase REST client.
type DataStoreConfig struct {
	URL     string        `yaml:"url"`
	AnonKey string        `yaml:"anon_key"`
	Timeout time.Duration `yaml:"timeout"`
	Retries int           `yaml:"retries"`
}

// IsDev reports whether the service runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

// LogFileDir returns the directory for daily log files, resolved against the
// executable directory. Empty means console only.
func (c *AppConfig) LogFileDir() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return ""
	}
	return ResolveRuntimePath(c.LogDir, "")
}

// Load reads the YAML file at configPath (a missing default file is not an
// error), then applies environment overrides and validates the result.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != "" && path != DefaultConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnv(&cfg, os.LookupEnv)
	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("invalid rate_limit_per_minute %d, expected >= 1", c.RateLimitPerMinute)
	}
	switch c.LLM.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("invalid llm.provider %q, expected gemini|openai|anthropic", c.LLM.Provider)
	}
	if c.Notes.MaxPages < 1 {
		return fmt.Errorf("invalid notes.max_pages %d, expected >= 1", c.Notes.MaxPages)
	}
	return nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:               defaultPort,
		Env:                defaultEnv,
		Debug:              true,
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: defaultRateLimit,
		LLM: LLMConfig{
			Provider: defaultLLMProvider,
			Timeout:  defaultLLMTimeout,
		},
		Notes: NotesConfig{
			BaseURL:    defaultScrapboxBaseURL,
			Timeout:    defaultNotesTimeout,
			WindowDays: defaultNotesWindowDays,
			MaxPages:   defaultNotesMaxPages,
		},
		DataStore: DataStoreConfig{
			Timeout: defaultDataStoreTimeout,
			Retries: defaultDataStoreRetries,
		},
	}
}

func normalize(cfg *AppConfig) {
	cfg.Env = strings.TrimSpace(cfg.Env)
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	cfg.APISecretKey = strings.TrimSpace(cfg.APISecretKey)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	cfg.AllowedOrigins = cleanList(cfg.AllowedOrigins)
	cfg.TrustedProxies = cleanList(cfg.TrustedProxies)

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = defaultLLMProvider
	}
	cfg.LLM.APIKey = strings.TrimSpace(cfg.LLM.APIKey)
	cfg.LLM.Model = strings.TrimSpace(cfg.LLM.Model)
	cfg.LLM.Endpoint = strings.TrimSpace(cfg.LLM.Endpoint)
	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = defaultLLMTimeout
	}

	cfg.Notes.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Notes.BaseURL), "/")
	if cfg.Notes.BaseURL == "" {
		cfg.Notes.BaseURL = defaultScrapboxBaseURL
	}
	if cfg.Notes.Timeout <= 0 {
		cfg.Notes.Timeout = defaultNotesTimeout
	}
	if cfg.Notes.WindowDays <= 0 {
		cfg.Notes.WindowDays = defaultNotesWindowDays
	}

	cfg.DataStore.URL = strings.TrimRight(strings.TrimSpace(cfg.DataStore.URL), "/")
	cfg.DataStore.AnonKey = strings.TrimSpace(cfg.DataStore.AnonKey)
	if cfg.DataStore.Timeout <= 0 {
		cfg.DataStore.Timeout = defaultDataStoreTimeout
	}
	if cfg.DataStore.Retries < 1 {
		cfg.DataStore.Retries = 1
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
