package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Session store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

var (
	errInvalidPort         = errors.New("config: invalid PORT number")
	errInvalidAPIBaseURL   = errors.New("config: API_BASE_URL must be an absolute http(s) URL")
	errInvalidTimeout      = errors.New("config: API_TIMEOUT must be positive")
	errInvalidSessionStore = errors.New("config: SESSION_STORE must be memory or redis")
	errInvalidSessionTTL   = errors.New("config: SESSION_TTL must be positive")
	errPageSizeOutOfRange  = errors.New("config: page sizes must be 1-100")
)

// Config holds all application configuration.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	APIBaseURL string
	APITimeout time.Duration

	SessionStore string
	RedisURL     string
	SessionTTL   time.Duration
	CookieSecure bool

	ProjectsPageSize int
	TasksPageSize    int

	MetricsEnabled bool
}

// fileConfig is the optional YAML file named by CONFIG_FILE. Empty values
// leave the defaults in place.
type fileConfig struct {
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	API       struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Session struct {
		Store        string `yaml:"store"`
		RedisURL     string `yaml:"redis_url"`
		TTL          string `yaml:"ttl"`
		CookieSecure *bool  `yaml:"cookie_secure"`
	} `yaml:"session"`
	Pagination struct {
		Projects int `yaml:"projects"`
		Tasks    int `yaml:"tasks"`
	} `yaml:"pagination"`
	MetricsEnabled *bool `yaml:"metrics_enabled"`
}

func defaults() Config {
	return Config{
		Port:             "3000",
		LogLevel:         "ERROR",
		LogFormat:        "json",
		APIBaseURL:       "http://localhost:8080/api",
		APITimeout:       10 * time.Second,
		SessionStore:     SessionStoreMemory,
		RedisURL:         "redis://localhost:6379/0",
		SessionTTL:       24 * time.Hour,
		ProjectsPageSize: 6,
		TasksPageSize:    5,
		MetricsEnabled:   true,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if set), then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.APIBaseURL = getEnv("API_BASE_URL", cfg.APIBaseURL)
	cfg.APITimeout = getEnvAsDuration("API_TIMEOUT", cfg.APITimeout)
	cfg.SessionStore = getEnv("SESSION_STORE", cfg.SessionStore)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.SessionTTL = getEnvAsDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.CookieSecure = getEnvAsBool("COOKIE_SECURE", cfg.CookieSecure)
	cfg.ProjectsPageSize = getEnvAsInt("PROJECTS_PAGE_SIZE", cfg.ProjectsPageSize)
	cfg.TasksPageSize = getEnvAsInt("TASKS_PAGE_SIZE", cfg.TasksPageSize)
	cfg.MetricsEnabled = getEnvAsBool("METRICS_ENABLED", cfg.MetricsEnabled)

	return cfg, cfg.validate()
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	setString(&c.Port, fc.Port)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	setString(&c.APIBaseURL, fc.API.BaseURL)
	setString(&c.SessionStore, fc.Session.Store)
	setString(&c.RedisURL, fc.Session.RedisURL)

	if err := setDuration(&c.APITimeout, fc.API.Timeout); err != nil {
		return fmt.Errorf("config: api.timeout: %w", err)
	}
	if err := setDuration(&c.SessionTTL, fc.Session.TTL); err != nil {
		return fmt.Errorf("config: session.ttl: %w", err)
	}

	if fc.Session.CookieSecure != nil {
		c.CookieSecure = *fc.Session.CookieSecure
	}
	if fc.MetricsEnabled != nil {
		c.MetricsEnabled = *fc.MetricsEnabled
	}
	if fc.Pagination.Projects != 0 {
		c.ProjectsPageSize = fc.Pagination.Projects
	}
	if fc.Pagination.Tasks != 0 {
		c.TasksPageSize = fc.Pagination.Tasks
	}
	return nil
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidAPIBaseURL, c.APIBaseURL)
	}

	if c.APITimeout <= 0 {
		return fmt.Errorf("%w: got %s", errInvalidTimeout, c.APITimeout)
	}

	if c.SessionStore != SessionStoreMemory && c.SessionStore != SessionStoreRedis {
		return fmt.Errorf("%w: %q", errInvalidSessionStore, c.SessionStore)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: got %s", errInvalidSessionTTL, c.SessionTTL)
	}

	for _, size := range []int{c.ProjectsPageSize, c.TasksPageSize} {
		if size < 1 || size > 100 {
			return fmt.Errorf("%w: got %d", errPageSizeOutOfRange, size)
		}
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return v
}
