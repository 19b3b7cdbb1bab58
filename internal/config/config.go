// Package config loads wordsync settings from defaults, a YAML file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/wordsync/internal/domain"
)

// EnvPrefix is stripped from environment variables. WORDSYNC_SYNC_INTERVAL_MINUTES
// sets sync.interval_minutes.
const EnvPrefix = "WORDSYNC_"

// DefaultFile is read when no config file is given and it exists.
const DefaultFile = "wordsync.yaml"

type Config struct {
	Storage StorageConfig `koanf:"storage"`
	Remote  RemoteConfig  `koanf:"remote"`
	Sync    SyncConfig    `koanf:"sync"`
	Decks   DecksConfig   `koanf:"decks"`
	Web     WebConfig     `koanf:"web"`
	Log     LogConfig     `koanf:"log"`
}

type StorageConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type RemoteConfig struct {
	BaseURL      string        `koanf:"base_url" validate:"omitempty,url"`
	Token        string        `koanf:"token"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
	ProbeTimeout time.Duration `koanf:"probe_timeout" validate:"gt=0"`
}

type SyncConfig struct {
	SafetyWindow       time.Duration         `koanf:"safety_window" validate:"gte=0"`
	AutoSyncEnabled    bool                  `koanf:"auto_sync_enabled"`
	IntervalMinutes    int                   `koanf:"interval_minutes" validate:"min=1"`
	ConflictPolicy     domain.ConflictPolicy `koanf:"conflict_policy" validate:"oneof=newest-wins"`
	OnStartup          bool                  `koanf:"on_startup"`
	OnNetworkReconnect bool                  `koanf:"on_network_reconnect"`
	ReconnectPoll      time.Duration         `koanf:"reconnect_poll" validate:"gt=0"`
}

// Settings is the persisted form of the sync group. It seeds the store on
// first run.
func (c SyncConfig) Settings() domain.SyncSettings {
	return domain.SyncSettings{
		AutoSyncEnabled:        c.AutoSyncEnabled,
		SyncIntervalMinutes:    c.IntervalMinutes,
		ConflictPolicy:         c.ConflictPolicy,
		SyncOnStartup:          c.OnStartup,
		SyncOnNetworkReconnect: c.OnNetworkReconnect,
	}
}

type DecksConfig struct {
	ReposDir string `koanf:"repos_dir" validate:"required"`
}

type WebConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
	File   string `koanf:"file"`
}

var defaults = map[string]any{
	"storage.path":              "wordsync.db",
	"remote.base_url":           "",
	"remote.timeout":            30 * time.Second,
	"remote.probe_timeout":      3 * time.Second,
	"sync.safety_window":        time.Minute,
	"sync.auto_sync_enabled":    true,
	"sync.interval_minutes":     15,
	"sync.conflict_policy":      string(domain.NewestWins),
	"sync.on_startup":           true,
	"sync.on_network_reconnect": true,
	"sync.reconnect_poll":       30 * time.Second,
	"decks.repos_dir":           "decks",
	"web.addr":                  "127.0.0.1:8484",
	"log.level":                 "info",
	"log.format":                "text",
	"log.file":                  "",
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"db":         "storage.path",
	"remote":     "remote.base_url",
	"token":      "remote.token",
	"addr":       "web.addr",
	"repos-dir":  "decks.repos_dir",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
}

// RegisterFlags adds the config-backed flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "Path to a YAML config file (default "+DefaultFile+" if present)")
	fs.String("env-file", ".env", "Path to a .env file loaded into the environment")
	fs.String("db", "", "Path to the SQLite database file")
	fs.String("remote", "", "Base URL of the sync server")
	fs.String("token", "", "Bearer token for the sync server")
	fs.String("addr", "", "Listen address of the local web surface")
	fs.String("repos-dir", "", "Directory git decks are cloned into")
	fs.String("log-level", "", "Log level: debug, info, warn or error")
	fs.String("log-format", "", "Log format: text or json")
	fs.String("log-file", "", "Write logs to this file, rotated by size")
}

type Loader struct {
	validator *validator.Validate
	translate func(validator.FieldError) string
}

func NewLoader() (*Loader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}
	return &Loader{
		validator: validate,
		translate: func(fe validator.FieldError) string { return fe.Translate(trans) },
	}, nil
}

// Load builds the Config. flags may be nil; when set, the config and env-file
// flags choose the files read and changed flags override everything else.
func (l *Loader) Load(flags *pflag.FlagSet) (*Config, error) {
	configFile, envFile := "", ".env"
	if flags != nil {
		configFile, _ = flags.GetString("config")
		if f, err := flags.GetString("env-file"); err == nil {
			envFile = f
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	k := koanf.New(".")
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("configuration file %s could not be read: %w", configFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to read flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg and reports every failing field in one error.
func (l *Loader) Validate(cfg *Config) error {
	err := l.validator.Struct(cfg)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, l.translate(e))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
}

// envKey turns WORDSYNC_SYNC_INTERVAL_MINUTES into sync.interval_minutes.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}
