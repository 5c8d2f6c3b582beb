package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 8000
	defaultEnv        = "development"
	defaultRateLimit  = 100

	defaultLLMProvider = "gemini"
	defaultLLMTimeout  = 60 * time.Second

	defaultScrapboxBaseURL = "https://scrapbox.io/api"
	defaultNotesTimeout    = 10 * time.Second
	defaultNotesWindowDays = 90
	defaultNotesMaxPages   = 10

	defaultDataStoreTimeout = 10 * time.Second
	defaultDataStoreRetries = 2
)
