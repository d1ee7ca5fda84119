package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the settings file kept next to the executable.
const FileName = "aptgraph.toml"

// AppConfig holds application settings.
type AppConfig struct {
	Project ProjectConfig `toml:"project"`
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	Watch   WatchConfig   `toml:"watch"`
}

// ProjectConfig points at the default project directory.
type ProjectConfig struct {
	Dir string `toml:"dir"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// WatchConfig tunes the file watcher.
type WatchConfig struct {
	DebounceMS int  `toml:"debounce_ms"`
	Apply      bool `toml:"apply"`
}

// Debounce returns the quiet period before a re-run.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Project: ProjectConfig{Dir: "."},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Port: 20270,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// GetExeDir returns the directory holding the executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// Load reads aptgraph.toml from the executable's directory. APTGRAPH_CONFIG
// names another file. A missing file yields the defaults.
func Load() (*AppConfig, error) {
	path := os.Getenv("APTGRAPH_CONFIG")
	if path == "" {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		path = filepath.Join(exeDir, FileName)
	}
	return LoadFile(path)
}

// LoadFile reads settings from path and applies environment overrides.
func LoadFile(path string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(config *AppConfig) error {
	if v := os.Getenv("APTGRAPH_PROJECT"); v != "" {
		config.Project.Dir = v
	}
	if v := os.Getenv("APTGRAPH_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("APTGRAPH_LOG_FORMAT"); v != "" {
		config.Log.Format = v
	}
	if v := os.Getenv("APTGRAPH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("APTGRAPH_PORT: %w", err)
		}
		config.Server.Port = port
	}
	return nil
}

// Save writes settings to path.
func Save(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
