package config

import (
	"strconv"
	"strings"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

func applyEnv(cfg *AppConfig, lookup LookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}

	num("PORT", &cfg.Port)
	str("ENVIRONMENT", &cfg.Env)
	str("LOG_DIR", &cfg.LogDir)
	str("API_SECRET_KEY", &cfg.APISecretKey)
	num("RATE_LIMIT_PER_MINUTE", &cfg.RateLimitPerMinute)
	str("REDIS_URL", &cfg.RedisURL)

	if v, ok := lookup("DEBUG"); ok && strings.TrimSpace(v) != "" {
		cfg.Debug = strings.EqualFold(strings.TrimSpace(v), "true")
	}
	if v, ok := lookup("ALLOWED_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
	if v, ok := lookup("TRUSTED_PROXIES"); ok && strings.TrimSpace(v) != "" {
		cfg.TrustedProxies = strings.Split(v, ",")
	}

	str("LLM_PROVIDER", &cfg.LLM.Provider)
	str("LLM_MODEL", &cfg.LLM.Model)
	str("LLM_ENDPOINT", &cfg.LLM.Endpoint)
	// LLM_API_KEY wins over the Gemini-specific name.
	str("GEMINI_API_KEY", &cfg.LLM.APIKey)
	str("LLM_API_KEY", &cfg.LLM.APIKey)

	str("SCRAPBOX_BASE_URL", &cfg.Notes.BaseURL)

	str("SUPABASE_URL", &cfg.DataStore.URL)
	str("SUPABASE_ANON_KEY", &cfg.DataStore.AnonKey)
}
