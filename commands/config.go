package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "OZONE"
	configName = "ozoneboard"

	DefaultAddr      = ":8501"
	DefaultModelPath = "modelo_O3_prophet.json"
)

var (
	ErrUnknownLogFormat = errors.New("unknown log format")
	ErrUnknownProfile   = errors.New("unknown profile mode")
)

// Config is the resolved runtime configuration. Values come from flags, then OZONE_* environment
// variables (a .env file is loaded first), then an optional ozoneboard.yaml, then defaults.
type Config struct {
	Addr       string
	Model      string
	LogFormat  string
	LogLevel   string
	SessionTTL time.Duration
	Profile    string
}

// config keys mapped to the flag names that may override them
var flagKeys = map[string]string{
	"addr":        "addr",
	"model":       "model",
	"log_format":  "log-format",
	"log_level":   "log-level",
	"session_ttl": "session-ttl",
	"profile":     "profile",
}

func loadConfig(flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("unable to load .env, %w", err)
	}

	v := viper.New()
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("model", DefaultModelPath)
	v.SetDefault("log_format", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("session_ttl", time.Hour)
	v.SetDefault("profile", "")

	v.SetConfigName(configName)
	v.AddConfigPath(".")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("unable to read config file, %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("unable to bind flag %s, %w", name, err)
			}
		}
	}

	cfg := Config{
		Addr:       v.GetString("addr"),
		Model:      v.GetString("model"),
		LogFormat:  strings.ToLower(v.GetString("log_format")),
		LogLevel:   v.GetString("log_level"),
		SessionTTL: v.GetDuration("session_ttl"),
		Profile:    strings.ToLower(v.GetString("profile")),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings
func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%s, %w", c.LogFormat, ErrUnknownLogFormat)
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("%s, %w", c.Profile, ErrUnknownProfile)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Logger builds the structured logger described by the config
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch c.LogFormat {
	case "json":
		h = slog.NewJSONHandler(w, handlerOpts)
	case "text", "":
		h = slog.NewTextHandler(w, handlerOpts)
	default:
		return nil, fmt.Errorf("%s, %w", c.LogFormat, ErrUnknownLogFormat)
	}
	return slog.New(h), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("unable to parse log level %q, %w", s, err)
	}
	return level, nil
}
