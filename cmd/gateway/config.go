package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"solution-gateway/solution/application"
	"solution-gateway/solution/infra"

	"gopkg.in/yaml.v3"
)

type config struct {
	ListenAddr      string        `yaml:"listen_addr"`
	UpstreamURL     string        `yaml:"upstream_url"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	IdentitiesFile  string        `yaml:"identities_file"`
	MaxAttempts     int           `yaml:"max_attempts"`
	RenderLanguage  string        `yaml:"render_language"`
	RenderStyle     string        `yaml:"render_style"`

	Rate  rateConfig  `yaml:"rate"`
	Stats statsConfig `yaml:"stats"`
	Log   logConfig   `yaml:"log"`
}

type rateConfig struct {
	Enabled            bool          `yaml:"enabled"`
	RPS                float64       `yaml:"rps"`
	Burst              int           `yaml:"burst"`
	KeyHeader          string        `yaml:"key_header"`
	TrustXFF           bool          `yaml:"trust_xff"`
	RetryAfter         time.Duration `yaml:"retry_after"`
	AddHeaders         bool          `yaml:"add_headers"`
	ConcurrencyMax     int           `yaml:"concurrency_max"`
	ConcurrencyTimeout time.Duration `yaml:"concurrency_timeout"`
}

type statsConfig struct {
	Enabled         bool          `yaml:"enabled"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisPassword   string        `yaml:"redis_password"`
	RedisDB         int           `yaml:"redis_db"`
	Prefix          string        `yaml:"prefix"`
	TTL             time.Duration `yaml:"ttl"`
	Bucket          string        `yaml:"bucket"`
	TrackIdentities bool          `yaml:"track_identities"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultConfig() config {
	return config{
		ListenAddr:      ":8080",
		UpstreamURL:     infra.DefaultUpstreamURL,
		UpstreamTimeout: 10 * time.Second,
		IdentitiesFile:  "user_ids.txt",
		MaxAttempts:     application.DefaultMaxAttempts,
		RenderLanguage:  application.DefaultLanguage,
		RenderStyle:     infra.DefaultStyle,
		Rate: rateConfig{
			Enabled:        true,
			RPS:            2,
			Burst:          5,
			RetryAfter:     1 * time.Second,
			ConcurrencyMax: 32,
		},
		Stats: statsConfig{
			Prefix: "solution:stats",
			TTL:    24 * time.Hour,
			Bucket: "minute",
		},
		Log: logConfig{Level: "info", Format: "json"},
	}
}

// readConfig aplica, em ordem: defaults, arquivo YAML (se houver) e variáveis
// de ambiente. Env sempre vence o arquivo.
func readConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.ListenAddr = getenvDefault("LISTEN_ADDR", cfg.ListenAddr)
	cfg.UpstreamURL = getenvDefault("UPSTREAM_URL", cfg.UpstreamURL)
	cfg.UpstreamTimeout = getenvDurationDefault("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	cfg.IdentitiesFile = getenvDefault("IDENTITIES_FILE", cfg.IdentitiesFile)
	cfg.MaxAttempts = getenvIntDefault("MAX_ATTEMPTS", cfg.MaxAttempts)
	cfg.RenderLanguage = getenvDefault("RENDER_LANGUAGE", cfg.RenderLanguage)
	cfg.RenderStyle = getenvDefault("RENDER_STYLE", cfg.RenderStyle)

	cfg.Rate.Enabled = getenvBoolDefault("RATE_ENABLED", cfg.Rate.Enabled)
	cfg.Rate.RPS = getenvFloatDefault("RATE_RPS", cfg.Rate.RPS)
	// IMPORTANTE: o burst libera uma rajada inicial. Com RPS < 1 e burst
	// padrão, as primeiras requisições passam e parece que o limiter não
	// funciona; nesse caso, sem RATE_BURST explícito, usamos burst 1.
	if burst, ok := getenvInt("RATE_BURST"); ok {
		cfg.Rate.Burst = burst
	} else if getenvIsSet("RATE_RPS") && cfg.Rate.RPS > 0 && cfg.Rate.RPS < 1 {
		cfg.Rate.Burst = 1
	}
	cfg.Rate.KeyHeader = getenvDefault("RATE_KEY_HEADER", cfg.Rate.KeyHeader)
	cfg.Rate.TrustXFF = getenvBoolDefault("TRUST_XFF", cfg.Rate.TrustXFF)
	cfg.Rate.RetryAfter = getenvDurationDefault("RETRY_AFTER", cfg.Rate.RetryAfter)
	cfg.Rate.AddHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", cfg.Rate.AddHeaders)
	cfg.Rate.ConcurrencyMax = getenvIntDefault("CONCURRENCY_MAX", cfg.Rate.ConcurrencyMax)
	cfg.Rate.ConcurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", cfg.Rate.ConcurrencyTimeout)

	cfg.Stats.Enabled = getenvBoolDefault("STATS_ENABLED", cfg.Stats.Enabled)
	cfg.Stats.RedisAddr = getenvDefault("STATS_REDIS_ADDR", cfg.Stats.RedisAddr)
	cfg.Stats.RedisPassword = getenvDefault("STATS_REDIS_PASSWORD", cfg.Stats.RedisPassword)
	cfg.Stats.RedisDB = getenvIntDefault("STATS_REDIS_DB", cfg.Stats.RedisDB)
	cfg.Stats.Prefix = getenvDefault("STATS_PREFIX", cfg.Stats.Prefix)
	cfg.Stats.TTL = getenvDurationDefault("STATS_TTL", cfg.Stats.TTL)
	cfg.Stats.Bucket = getenvDefault("STATS_BUCKET", cfg.Stats.Bucket)
	cfg.Stats.TrackIdentities = getenvBoolDefault("STATS_TRACK_IDENTITIES", cfg.Stats.TrackIdentities)

	cfg.Log.Level = getenvDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getenvDefault("LOG_FORMAT", cfg.Log.Format)

	return cfg, cfg.validate()
}

func (cfg config) validate() error {
	if strings.TrimSpace(cfg.UpstreamURL) == "" {
		return errors.New("UPSTREAM_URL is required")
	}
	if strings.TrimSpace(cfg.IdentitiesFile) == "" {
		return errors.New("IDENTITIES_FILE is required")
	}
	if cfg.MaxAttempts <= 0 {
		return errors.New("MAX_ATTEMPTS must be > 0")
	}
	// WriteTimeout do servidor é derivado deste valor
	if cfg.UpstreamTimeout <= 0 {
		return errors.New("UPSTREAM_TIMEOUT must be > 0")
	}
	if cfg.Rate.Enabled && cfg.Rate.RPS <= 0 {
		return errors.New("RATE_RPS must be > 0")
	}
	if cfg.Rate.Enabled && cfg.Rate.Burst <= 0 {
		return errors.New("RATE_BURST must be > 0")
	}
	if cfg.Rate.ConcurrencyMax < 0 {
		return errors.New("CONCURRENCY_MAX must be >= 0")
	}
	if cfg.Stats.Enabled && strings.TrimSpace(cfg.Stats.RedisAddr) == "" {
		return errors.New("STATS_REDIS_ADDR is required when STATS_ENABLED=true")
	}
	return nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	if i, ok := getenvInt(k); ok {
		return i
	}
	return def
}

func getenvInt(k string) (int, bool) {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func getenvIsSet(k string) bool {
	v, ok := os.LookupEnv(k)
	return ok && v != ""
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
