package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Makepad-fr/tada-remote/internal/auth"
)

// Backends understood by store.backend.
const (
	BackendRemote = "remote"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds all client and server configuration.
type Config struct {
	Store  StoreConfig
	Remote RemoteConfig
	UI     UIConfig
	Logger LoggerConfig
	Server ServerConfig
}

type StoreConfig struct {
	Backend    string
	Collection string
	FileDir    string
	SQLitePath string
}

type RemoteConfig struct {
	URL        string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
}

type UIConfig struct {
	Theme            string
	ToastTimeout     time.Duration
	ClearConcurrency int
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
	File         string
}

type ServerConfig struct {
	Port            int
	Mode            string
	Token           string
	RateLimitPerMin int
}

// New returns a viper instance with defaults, search paths and env binding
// set up. Flags may be bound to it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := auth.Dir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("/etc/tada/")

	v.SetEnvPrefix("TADA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", "")
	v.SetDefault("store.collection", "todos")
	v.SetDefault("store.file_dir", ".")
	v.SetDefault("store.sqlite_path", "tada.db")

	v.SetDefault("remote.url", "")
	v.SetDefault("remote.timeout", "10s")
	v.SetDefault("remote.rate_per_sec", 10)
	v.SetDefault("remote.burst", 5)

	v.SetDefault("ui.theme", "classic")
	v.SetDefault("ui.toast_timeout", "3s")
	v.SetDefault("ui.clear_concurrency", 8)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", "production")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", false)
	logFile := ""
	if dir, err := auth.Dir(); err == nil {
		logFile = filepath.Join(dir, "tada.log")
	}
	v.SetDefault("logger.file", logFile)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.token", "")
	v.SetDefault("server.rate_limit_per_min", 600)
}

// Load reads the config file (if any) into v and returns the typed config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Store.Collection = v.GetString("store.collection")
	cfg.Store.FileDir = v.GetString("store.file_dir")
	cfg.Store.SQLitePath = v.GetString("store.sqlite_path")

	cfg.Remote.URL = strings.TrimSpace(v.GetString("remote.url"))
	cfg.Remote.Timeout = v.GetDuration("remote.timeout")
	cfg.Remote.RatePerSec = v.GetFloat64("remote.rate_per_sec")
	cfg.Remote.Burst = v.GetInt("remote.burst")

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(v.GetString("store.backend")))
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendFile
		if cfg.Remote.URL != "" {
			cfg.Store.Backend = BackendRemote
		}
	}

	cfg.UI.Theme = v.GetString("ui.theme")
	cfg.UI.ToastTimeout = v.GetDuration("ui.toast_timeout")
	cfg.UI.ClearConcurrency = v.GetInt("ui.clear_concurrency")

	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")
	cfg.Logger.File = v.GetString("logger.file")

	cfg.Server.Port = v.GetInt("server.port")
	cfg.Server.Mode = v.GetString("server.mode")
	cfg.Server.Token = v.GetString("server.token")
	cfg.Server.RateLimitPerMin = v.GetInt("server.rate_limit_per_min")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
	case BackendRemote:
		if c.Remote.URL == "" {
			return errors.New("store.backend is remote but remote.url is empty")
		}
	default:
		return fmt.Errorf("unknown store.backend %q (want remote, file or sqlite)", c.Store.Backend)
	}
	if c.UI.ClearConcurrency <= 0 {
		c.UI.ClearConcurrency = 1
	}
	if c.UI.ToastTimeout <= 0 {
		c.UI.ToastTimeout = 3 * time.Second
	}
	return nil
}
