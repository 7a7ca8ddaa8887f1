package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the resolved CLI configuration. Flags override the environment,
// which overrides the saved session.
type Config struct {
	ServerURL   string
	Token       string
	SessionFile string
	Output      string
	Verbose     bool
}

// Session is what login persists between invocations
type Session struct {
	Server   string `yaml:"server"`
	Username string `yaml:"username"`
	Token    string `yaml:"token"`
}

func DefaultConfig() *Config {
	return &Config{
		ServerURL:   envOr("CTC_SERVER", "http://localhost:8080"),
		Token:       strings.TrimSpace(os.Getenv("CTC_TOKEN")),
		SessionFile: envOr("CTC_SESSION_FILE", defaultSessionFile()),
		Output:      "text",
	}
}

// LoadSession reads the session file. A missing file is an empty session.
func (c *Config) LoadSession() (Session, error) {
	var s Session
	data, err := os.ReadFile(c.SessionFile)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("corrupt session file %s: %w", c.SessionFile, err)
	}
	s.Token = strings.TrimSpace(s.Token)
	return s, nil
}

// ResolveToken fills Token from the session unless one was given explicitly.
// A session saved against a different server is ignored.
func (c *Config) ResolveToken() error {
	if c.Token != "" {
		return nil
	}
	s, err := c.LoadSession()
	if err != nil {
		return err
	}
	if s.Server == "" || s.Server == c.ServerURL {
		c.Token = s.Token
	}
	return nil
}

func (c *Config) SaveSession(s Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.SessionFile), 0o700); err != nil {
		return err
	}
	c.Token = s.Token
	return os.WriteFile(c.SessionFile, data, 0o600)
}

func (c *Config) ClearSession() error {
	c.Token = ""
	if err := os.Remove(c.SessionFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ctc", "session.yaml")
	}
	return filepath.Join(home, ".ctc", "session.yaml")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
