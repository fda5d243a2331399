package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	WebAddr       string
	TelegramToken string

	LogLevel string
	Debug    bool

	PreferIPv4     bool
	HTTPTimeout    time.Duration
	RequestTimeout time.Duration
	// VideoTimeout bounds one Veo render, polling included.
	VideoTimeout   time.Duration
	MaxConcurrent  int
	SessionTTL     time.Duration

	MediaGroupDebounce time.Duration

	GeminiAPIKey     string
	GeminiKeyPool    []string
	GeminiBaseURL    string
	GeminiAPIVersion string

	GrokAPIKey  string
	GrokBaseURL string
	GrokModel   string

	DataDir string

	RetryAttempts     int
	RetryDelay        time.Duration
	SlotStagger       time.Duration
	SceneStagger      time.Duration
	VideoPollInterval time.Duration
}

// fileConfig mirrors the optional STUDIO_CONFIG_FILE layout.
type fileConfig struct {
	Web struct {
		Addr string `yaml:"addr"`
	} `yaml:"web"`
	Log struct {
		Level string `yaml:"level"`
		Debug bool   `yaml:"debug"`
	} `yaml:"log"`
	Gemini struct {
		KeyPool    []string `yaml:"key_pool"`
		BaseURL    string   `yaml:"base_url"`
		APIVersion string   `yaml:"api_version"`
	} `yaml:"gemini"`
	Grok struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"grok"`
	DataDir string `yaml:"data_dir"`
	Retry   struct {
		Attempts int `yaml:"attempts"`
		DelayMS  int `yaml:"delay_ms"`
	} `yaml:"retry"`
	Stagger struct {
		SlotMS  int `yaml:"slot_ms"`
		SceneMS int `yaml:"scene_ms"`
	} `yaml:"stagger"`
}

func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("STUDIO_CONFIG_FILE")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.WebAddr = getEnv("WEB_ADDR", cfg.WebAddr)
	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.Debug = getEnvBool("DEBUG", cfg.Debug)
	cfg.PreferIPv4 = getEnvBool("PREFER_IPV4", cfg.PreferIPv4)
	cfg.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT_SECONDS", cfg.HTTPTimeout, time.Second)
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT_SECONDS", cfg.RequestTimeout, time.Second)
	cfg.VideoTimeout = getEnvDuration("VIDEO_TIMEOUT_SECONDS", cfg.VideoTimeout, time.Second)
	cfg.MaxConcurrent = getEnvInt("MAX_CONCURRENT", cfg.MaxConcurrent)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL_MINUTES", cfg.SessionTTL, time.Minute)
	cfg.MediaGroupDebounce = getEnvDuration("MEDIA_GROUP_DEBOUNCE_MS", cfg.MediaGroupDebounce, time.Millisecond)

	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if pool := splitList(os.Getenv("GEMINI_KEY_POOL")); len(pool) > 0 {
		cfg.GeminiKeyPool = pool
	}
	cfg.GeminiBaseURL = getEnv("GEMINI_BASE_URL", cfg.GeminiBaseURL)
	cfg.GeminiAPIVersion = getEnv("GEMINI_API_VERSION", cfg.GeminiAPIVersion)

	cfg.GrokAPIKey = strings.TrimSpace(os.Getenv("GROK_API_KEY"))
	cfg.GrokBaseURL = getEnv("GROK_BASE_URL", cfg.GrokBaseURL)
	cfg.GrokModel = getEnv("GROK_MODEL", cfg.GrokModel)

	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)

	cfg.RetryAttempts = getEnvInt("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.RetryDelay = getEnvDuration("RETRY_DELAY_MS", cfg.RetryDelay, time.Millisecond)
	cfg.SlotStagger = getEnvDuration("SLOT_STAGGER_MS", cfg.SlotStagger, time.Millisecond)
	cfg.SceneStagger = getEnvDuration("SCENE_STAGGER_MS", cfg.SceneStagger, time.Millisecond)
	cfg.VideoPollInterval = getEnvDuration("VIDEO_POLL_SECONDS", cfg.VideoPollInterval, time.Second)

	cfg.clamp()
	return cfg, nil
}

// RequireTelegram is checked by the bot command only; the web surface runs without a token.
func (c Config) RequireTelegram() error {
	if strings.TrimSpace(c.TelegramToken) == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func (c Config) CredentialsPath() string {
	return filepath.Join(c.DataDir, "credentials.db")
}

func defaults() Config {
	return Config{
		WebAddr:            ":8080",
		LogLevel:           "info",
		PreferIPv4:         true,
		HTTPTimeout:        180 * time.Second,
		RequestTimeout:     240 * time.Second,
		VideoTimeout:       900 * time.Second,
		MaxConcurrent:      4,
		SessionTTL:         120 * time.Minute,
		MediaGroupDebounce: 1200 * time.Millisecond,
		GeminiBaseURL:      "https://generativelanguage.googleapis.com",
		GeminiAPIVersion:   "v1beta",
		GrokBaseURL:        "https://api.x.ai/v1",
		GrokModel:          "grok-beta",
		DataDir:            ".topaz",
		RetryAttempts:      2,
		RetryDelay:         time.Second,
		SlotStagger:        150 * time.Millisecond,
		SceneStagger:       200 * time.Millisecond,
		VideoPollInterval:  15 * time.Second,
	}
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&c.WebAddr, fc.Web.Addr)
	setString(&c.LogLevel, fc.Log.Level)
	if fc.Log.Debug {
		c.Debug = true
	}
	if pool := cleanList(fc.Gemini.KeyPool); len(pool) > 0 {
		c.GeminiKeyPool = pool
	}
	setString(&c.GeminiBaseURL, fc.Gemini.BaseURL)
	setString(&c.GeminiAPIVersion, fc.Gemini.APIVersion)
	setString(&c.GrokBaseURL, fc.Grok.BaseURL)
	setString(&c.GrokModel, fc.Grok.Model)
	setString(&c.DataDir, fc.DataDir)
	if fc.Retry.Attempts > 0 {
		c.RetryAttempts = fc.Retry.Attempts
	}
	if fc.Retry.DelayMS > 0 {
		c.RetryDelay = time.Duration(fc.Retry.DelayMS) * time.Millisecond
	}
	if fc.Stagger.SlotMS > 0 {
		c.SlotStagger = time.Duration(fc.Stagger.SlotMS) * time.Millisecond
	}
	if fc.Stagger.SceneMS > 0 {
		c.SceneStagger = time.Duration(fc.Stagger.SceneMS) * time.Millisecond
	}
	return nil
}

func (c *Config) clamp() {
	d := defaults()
	if c.MaxConcurrent < 1 {
		c.MaxConcurrent = 1
	}
	if c.RetryAttempts < 1 {
		c.RetryAttempts = 1
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = d.HTTPTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.VideoTimeout <= 0 {
		c.VideoTimeout = d.VideoTimeout
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = d.SessionTTL
	}
	if c.VideoPollInterval <= 0 {
		c.VideoPollInterval = d.VideoPollInterval
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.SlotStagger < 0 {
		c.SlotStagger = 0
	}
	if c.SceneStagger < 0 {
		c.SceneStagger = 0
	}
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func splitList(value string) []string {
	return cleanList(strings.Split(value, ","))
}

func cleanList(in []string) []string {
	var out []string
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration, unit time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return time.Duration(parsed) * unit
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
