// Package config loads service configuration from defaults, an optional
// triage.yaml file and TRIAGE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	STT      STTConfig      `mapstructure:"stt"`
	Report   ReportConfig   `mapstructure:"report"`
	Triage   TriageConfig   `mapstructure:"triage"`
}

type ServerConfig struct {
	Port      int     `mapstructure:"port"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second
	RateBurst int     `mapstructure:"rate_burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // postgres or sqlite
	DSN    string `mapstructure:"dsn"`
}

type TelegramConfig struct {
	Token        string `mapstructure:"token"`
	DoctorChatID int64  `mapstructure:"doctor_chat_id"`
}

type STTConfig struct {
	URL string `mapstructure:"url"`
}

type ReportConfig struct {
	FontPath string `mapstructure:"font_path"`
}

type TriageConfig struct {
	SimulatedLatency time.Duration `mapstructure:"simulated_latency"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "file:health-triage.db")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.doctor_chat_id", 0)

	v.SetDefault("stt.url", "http://stt:8000/transcribe")
	v.SetDefault("report.font_path", "")
	v.SetDefault("triage.simulated_latency", "0s")
}

// Load reads configuration. configFile may be empty, in which case triage.yaml is
// searched for in the usual locations and silently skipped when absent.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TRIAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("triage")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.health-triage")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the server cannot start without.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	switch c.Storage.Driver {
	case "postgres", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("storage.driver %q must be postgres or sqlite", c.Storage.Driver))
	}
	if c.Storage.DSN == "" {
		problems = append(problems, "storage.dsn is required")
	}
	if c.Triage.SimulatedLatency < 0 {
		problems = append(problems, "triage.simulated_latency must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DoctorAlertsEnabled reports whether urgent results can be forwarded to a doctor.
func (c *Config) DoctorAlertsEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.DoctorChatID != 0
}
