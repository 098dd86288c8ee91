// Package config persists the client's preferences and credentials under
// the user config dir, and reads the environment override for the API base.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// EnvBase is the environment override for the API base URL, the strongest
// configuration source.
const EnvBase = "DIET_API_BASE"

// Config is the persisted preference file at ~/.config/diet/config.json.
type Config struct {
	BaseURL string `json:"base_url,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// Credentials stores authentication state at ~/.config/diet/auth.json.
// Token is only set for deployments that issue a bearer token; cookie
// sessions live in the transport's jar for the process lifetime.
type Credentials struct {
	Token    string `json:"token,omitempty"`
	Email    string `json:"email,omitempty"`
	ClientID string `json:"client_id"`
}

// Dir returns ~/.config/diet, creating it if necessary.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	dir := filepath.Join(base, "diet")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// StateDir returns the mirror/journal state directory under Dir.
func StateDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	state := filepath.Join(dir, "state")
	if err := os.MkdirAll(state, 0755); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return state, nil
}

// Load reads the preference file; a missing file is an empty config.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the preference file.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// LoadCredentials reads stored credentials; nil when not logged in.
func LoadCredentials() (*Credentials, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "auth.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// SaveCredentials writes credentials with owner-only permissions.
func SaveCredentials(creds *Credentials) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "auth.json"), data, 0600)
}

// ClearCredentials removes the auth file.
func ClearCredentials() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(dir, "auth.json"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// EnvBaseURL returns the environment override for the API base. A .env file
// in the working directory is honored the same way the original honored its
// build-time variable.
func EnvBaseURL() string {
	_ = godotenv.Load()
	return os.Getenv(EnvBase)
}

// ClientID returns a stable identifier for this client install, generating
// and persisting one on first use.
func ClientID() string {
	creds, err := LoadCredentials()
	if err == nil && creds != nil && creds.ClientID != "" {
		return creds.ClientID
	}
	id := uuid.NewString()
	if creds == nil {
		creds = &Credentials{}
	}
	creds.ClientID = id
	_ = SaveCredentials(creds)
	return id
}
