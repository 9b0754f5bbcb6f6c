// Package config loads omni's non-secret application settings. Secrets live
// in the separate credentials file managed by the secrets package.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application settings
type Config struct {
	HTTP        HTTPConfig   `toml:"http"`
	Vault       VaultConfig  `toml:"vault"`
	Output      OutputConfig `toml:"output"`
	SecretsPath string       `toml:"secrets_path"`
}

// HTTPConfig holds transport settings shared by both service clients
type HTTPConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// VaultConfig holds the vault service endpoints. The ERP base URL is a
// per-tenant value and lives in the credentials file instead.
type VaultConfig struct {
	IdentityURL string `toml:"identity_url"`
	APIURL      string `toml:"api_url"`
}

// OutputConfig holds result formatting settings
type OutputConfig struct {
	Color bool `toml:"color"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
		},
		Vault: VaultConfig{
			IdentityURL: "https://identity.bitwarden.com",
			APIURL:      "https://api.bitwarden.com",
		},
		Output: OutputConfig{
			Color: true,
		},
		SecretsPath: DefaultSecretsPath(),
	}
}

// Load reads configuration from a TOML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.SecretsPath = ExpandPath(cfg.SecretsPath)

	return cfg, nil
}

// Timeout returns the HTTP timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "omni", "config.toml")
}

// DefaultSecretsPath returns the default credentials file location
func DefaultSecretsPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "omni", "credentials.env")
}
