package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultMaxToolSteps caps agent tool iterations when nothing else is set
const DefaultMaxToolSteps = 8

// AppConfig is the local tool configuration (not the backend settings file)
type AppConfig struct {
	BaseURL      string `yaml:"base_url"`
	Storage      string `yaml:"storage"`
	MaxToolSteps int    `yaml:"max_tool_steps"`
	Agent        *bool  `yaml:"agent"`
}

// DefaultAppConfig returns the built-in configuration
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		BaseURL:      DefaultBaseURL,
		MaxToolSteps: DefaultMaxToolSteps,
	}
}

// AgentEnabled reports whether agent mode is on (the default)
func (c *AppConfig) AgentEnabled() bool {
	if c.Agent == nil {
		return true
	}
	return *c.Agent
}

// ConfigDir returns the tool's directory under the user config root
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(base, "mcp-playground"), nil
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultStoragePath returns the default state database location
func DefaultStoragePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}

// LoadAppConfig reads the config file at path. A missing file yields the
// defaults; a present but unparseable file is an error.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxToolSteps <= 0 {
		cfg.MaxToolSteps = DefaultMaxToolSteps
	}
	return cfg, nil
}

// ResolveBaseURL picks the backend base URL: explicit flag value, then the
// MCP_BASE_URL environment variable, then the config file, then the built-in
// default. Trailing slashes are stripped.
func ResolveBaseURL(flagValue string, cfg *AppConfig) string {
	if flagValue != "" {
		return strings.TrimSuffix(flagValue, "/")
	}
	if env := os.Getenv("MCP_BASE_URL"); env != "" {
		return strings.TrimSuffix(env, "/")
	}
	if cfg != nil && cfg.BaseURL != "" {
		return strings.TrimSuffix(cfg.BaseURL, "/")
	}
	return DefaultBaseURL
}

// ResolveStoragePath picks the state database path: explicit flag value,
// then the config file, then the default location (created on demand).
func ResolveStoragePath(flagValue string, cfg *AppConfig) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg != nil && cfg.Storage != "" {
		return cfg.Storage, nil
	}
	path, err := DefaultStoragePath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}
	return path, nil
}
