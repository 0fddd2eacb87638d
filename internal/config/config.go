package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	BackendURL     string
	BackendTimeout time.Duration
	DBDSN          string
	LogFile        string
	SessionSecret  string
	SessionTTL     time.Duration
	HookSecret     string
	PageSize       int
	SearchDebounce time.Duration
	WorkspaceIdle  time.Duration
	TemplatesDir   string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

func mask(s string) string {
	if s == "" {
		return "(unset)"
	}
	return "****"
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:5500"),
		BackendTimeout: getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
		DBDSN:          getEnv("DB_DSN", "bloomadmin.db"), // sqlite file in project root
		LogFile:        getEnv("LOG_FILE", "./bloomadmin.log"),
		SessionSecret:  getEnv("SESSION_SECRET", ""),
		SessionTTL:     getEnvDuration("SESSION_TTL", 8*time.Hour),
		HookSecret:     getEnv("HOOK_SECRET", ""),
		PageSize:       getEnvInt("PAGE_SIZE", 10),
		SearchDebounce: getEnvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		WorkspaceIdle:  getEnvDuration("WORKSPACE_IDLE", 30*time.Minute),
		TemplatesDir:   getEnv("TEMPLATES_DIR", "./web/templates"),
	}
	if cfg.SessionSecret == "" {
		// Tokens from a previous run stop verifying after a restart.
		log.Printf("[config] SESSION_SECRET unset, generating a per-process secret")
		cfg.SessionSecret = randomSecret()
	}

	log.Printf("[config] PORT=%s BACKEND_URL=%s BACKEND_TIMEOUT=%s DB_DSN=%s LOG_FILE=%s SESSION_SECRET=%s SESSION_TTL=%s HOOK_SECRET=%s PAGE_SIZE=%d SEARCH_DEBOUNCE=%s WORKSPACE_IDLE=%s TEMPLATES_DIR=%s",
		cfg.Port, cfg.BackendURL, cfg.BackendTimeout, cfg.DBDSN, cfg.LogFile, mask(os.Getenv("SESSION_SECRET")), cfg.SessionTTL,
		mask(cfg.HookSecret), cfg.PageSize, cfg.SearchDebounce, cfg.WorkspaceIdle, cfg.TemplatesDir)
	return cfg
}
