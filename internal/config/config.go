package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tasks.db"
	appDir                = "taskline"
	envConfigPath         = "TASKLINE_CONFIG"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Submit      string `toml:"submit"`
	HistoryUp   string `toml:"history_up"`
	HistoryDown string `toml:"history_down"`
}

type Config struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	Prompt   string `toml:"prompt"`
	TUI      bool   `toml:"tui"`
	Keys     Keymap `toml:"keys"`
}

// ResolveConfigPath returns $TASKLINE_CONFIG when set, otherwise
// config.toml under the user config directory.
func ResolveConfigPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDir, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:   filepath.Join(dir, DefaultDBName),
		LogLevel: "info",
		Prompt:   "> ",
		Keys: Keymap{
			Quit:        "ctrl+c",
			Submit:      "enter",
			HistoryUp:   "up",
			HistoryDown: "down",
		},
	}
}
