// Package config loads server configuration from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config is the full server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Daily   DailyConfig   `yaml:"daily"`
	Uploads UploadsConfig `yaml:"uploads"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type StorageConfig struct {
	Type           string `yaml:"type"`
	RedisURL       string `yaml:"redis_url"`
	RedisKeyPrefix string `yaml:"redis_key_prefix"`
	RedisPoolSize  int    `yaml:"redis_pool_size"`
	PostgresDSN    string `yaml:"postgres_dsn"`
	// Migrate applies pending postgres migrations at startup
	Migrate bool `yaml:"migrate"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

type DailyConfig struct {
	QuoteURL     string        `yaml:"quote_url"`
	QuoteTimeout time.Duration `yaml:"quote_timeout"`
	ResetHour    int           `yaml:"reset_hour"`
	ResetMinute  int           `yaml:"reset_minute"`
}

type UploadsConfig struct {
	Dir       string `yaml:"dir"`
	URLPrefix string `yaml:"url_prefix"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Storage: StorageConfig{
			Type:           StorageMemory,
			RedisURL:       "redis://localhost:6379",
			RedisKeyPrefix: "ctc",
			RedisPoolSize:  10,
			Migrate:        true,
		},
		Auth: AuthConfig{
			JWTSecret: "dev-secret-change-me",
			TokenTTL:  24 * time.Hour,
		},
		Daily: DailyConfig{
			QuoteURL:     "https://zenquotes.io/api/random",
			QuoteTimeout: 10 * time.Second,
			ResetHour:    0,
			ResetMinute:  5,
		},
		Uploads: UploadsConfig{
			Dir:       "uploads",
			URLPrefix: "/uploads",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	env := envReader{lookup: lookup}

	env.setString(&c.Server.Host, "CTC_HOST")
	env.setInt(&c.Server.Port, "CTC_PORT")
	env.setList(&c.Server.AllowedOrigins, "CTC_ALLOWED_ORIGINS")

	env.setString(&c.Storage.Type, "STORAGE_TYPE", "CTC_STORAGE_TYPE")
	env.setString(&c.Storage.RedisURL, "REDIS_URL")
	env.setString(&c.Storage.RedisKeyPrefix, "CTC_REDIS_KEY_PREFIX")
	env.setInt(&c.Storage.RedisPoolSize, "CTC_REDIS_POOL_SIZE")
	env.setString(&c.Storage.PostgresDSN, "DATABASE_URL")
	env.setBool(&c.Storage.Migrate, "CTC_MIGRATE")

	env.setString(&c.Auth.JWTSecret, "CTC_JWT_SECRET")
	env.setDuration(&c.Auth.TokenTTL, "CTC_TOKEN_TTL")
	env.setInt(&c.Auth.BcryptCost, "CTC_BCRYPT_COST")

	env.setString(&c.Daily.QuoteURL, "CTC_QUOTE_URL")
	env.setDuration(&c.Daily.QuoteTimeout, "CTC_QUOTE_TIMEOUT")
	env.setInt(&c.Daily.ResetHour, "CTC_RESET_HOUR")
	env.setInt(&c.Daily.ResetMinute, "CTC_RESET_MINUTE")

	env.setString(&c.Uploads.Dir, "CTC_UPLOAD_DIR")
	env.setString(&c.Uploads.URLPrefix, "CTC_UPLOAD_URL_PREFIX")

	env.setString(&c.Log.Level, "CTC_LOG_LEVEL")
	env.setString(&c.Log.Format, "CTC_LOG_FORMAT")

	return errors.Join(env.errs...)
}

// envReader applies set variables and collects parse errors
type envReader struct {
	lookup lookupFunc
	errs   []error
}

// get returns the first set, non-blank variable among names
func (e *envReader) get(names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := e.lookup(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func (e *envReader) setString(dst *string, names ...string) {
	if v, ok := e.get(names...); ok {
		*dst = v
	}
}

func (e *envReader) setInt(dst *int, name string) {
	if v, ok := e.get(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = n
	}
}

func (e *envReader) setBool(dst *bool, name string) {
	if v, ok := e.get(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = b
	}
}

func (e *envReader) setDuration(dst *time.Duration, name string) {
	if v, ok := e.get(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = d
	}
}

func (e *envReader) setList(dst *[]string, name string) {
	if v, ok := e.get(name); ok {
		var items []string
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				items = append(items, s)
			}
		}
		*dst = items
	}
}

// Validate reports every invalid setting at once
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			errs = append(errs, errors.New("storage.redis_url is required for redis storage"))
		}
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required for postgres storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.type %q: must be memory, redis or postgres", c.Storage.Type))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Auth.BcryptCost != 0 && (c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31) {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost %d out of range", c.Auth.BcryptCost))
	}

	if c.Daily.ResetHour < 0 || c.Daily.ResetHour > 23 {
		errs = append(errs, fmt.Errorf("daily.reset_hour %d out of range", c.Daily.ResetHour))
	}
	if c.Daily.ResetMinute < 0 || c.Daily.ResetMinute > 59 {
		errs = append(errs, fmt.Errorf("daily.reset_minute %d out of range", c.Daily.ResetMinute))
	}

	if c.Uploads.Dir == "" {
		errs = append(errs, errors.New("uploads.dir is required"))
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("log.format %q: must be json or text", c.Log.Format))
	}

	return errors.Join(errs...)
}

// NewLogger builds the process logger described by c
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", s, err)
	}
	return level, nil
}
