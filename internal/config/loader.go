package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(homeDir(), ".sashimi", "config.json")
}

// DataDir returns the sashimi data directory, creating it if needed.
func DataDir() string {
	dir := filepath.Join(homeDir(), ".sashimi")
	os.MkdirAll(dir, 0o755)
	return dir
}

// TokensPath returns the monthly token budget state file path.
func TokensPath() string {
	return filepath.Join(DataDir(), "tokens.json")
}

// CursorPath returns the mention cursor state file for one reply stream.
// Fixed and AI streams keep separate cursors so they can run independently.
func CursorPath(stream string) string {
	return filepath.Join(DataDir(), "last_mention_id_"+stream+".txt")
}

// HistoryPath returns the sent-log database path.
func HistoryPath() string {
	return filepath.Join(DataDir(), "history.db")
}

// EnvPath returns the credentials .env file path.
func EnvPath() string {
	return filepath.Join(DataDir(), ".env")
}

// Load reads configuration from disk, falling back to defaults.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads configuration from a specific path. A missing file
// yields the defaults; a present file is layered on top of them.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	// Backfill zero values so a sparse file still gets working defaults.
	if cfg.Budget.MonthlyLimit == 0 {
		cfg.Budget.MonthlyLimit = 500
	}
	if cfg.AutoReply.IntervalMinutes == 0 {
		cfg.AutoReply.IntervalMinutes = 5
	}
	if cfg.AutoReply.Mode == "" {
		cfg.AutoReply.Mode = "fixed"
	}
	if cfg.AutoReply.FixedMessage == "" {
		cfg.AutoReply.FixedMessage = "Thanks for the mention!"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.Temperature == 0 {
		cfg.OpenAI.Temperature = 0.7
	}

	return cfg, nil
}

// Save writes configuration to the default path.
func Save(cfg *Config) error {
	return SaveTo(cfg, ConfigPath())
}

// SaveTo writes configuration to a specific path.
func SaveTo(cfg *Config, path string) error {
	os.MkdirAll(filepath.Dir(path), 0o755)

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp"
	}
	return home
}
