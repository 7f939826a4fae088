package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database   DatabaseConfig
	Repository RepositoryConfig
	Server     ServerConfig
	Log        LogConfig
	UI         UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// RepositoryConfig selects and tunes the people repository. An empty URL
// means the local sqlite database.
type RepositoryConfig struct {
	URL          string
	Timeout      time.Duration
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// ServerConfig holds REST API settings.
type ServerConfig struct {
	Addr string
}

// LogConfig holds logging settings. An empty File discards logs.
type LogConfig struct {
	Level string
	File  string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Snapshot bool
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

// ConfigPath is where Save writes and Load looks by default.
func ConfigPath() string {
	if p := os.Getenv("JASKCONTACTS_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".config", "jaskcontacts", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix JASKCONTACTS_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(homeDir(), ".local", "share", "jaskcontacts", "contacts.db"))
	v.SetDefault("repository.url", "")
	v.SetDefault("repository.timeout", "10s")
	v.SetDefault("repository.poll_interval", "2s")
	v.SetDefault("server.addr", "127.0.0.1:5000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("ui.snapshot", true)

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("JASKCONTACTS_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(homeDir(), ".config", "jaskcontacts"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("JASKCONTACTS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("repository.url", cfg.Repository.URL)
	v.Set("repository.timeout", cfg.Repository.Timeout.String())
	v.Set("repository.poll_interval", cfg.Repository.PollInterval.String())
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("ui.snapshot", cfg.UI.Snapshot)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
