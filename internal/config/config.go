// Package config loads server configuration from defaults, an optional file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Environment string

const (
	Local      Environment = "local"
	Production Environment = "production"
)

func (e Environment) Valid() bool {
	switch e {
	case Local, Production:
		return true
	}
	return false
}

type Config struct {
	Env     Environment   `mapstructure:"env"`
	Server  ServerConfig  `mapstructure:"server"`
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Store   StoreConfig   `mapstructure:"store"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type TMDBConfig struct {
	APIURL            string        `mapstructure:"api_url"`
	APIKey            string        `mapstructure:"api_key"`
	APIToken          string        `mapstructure:"api_token"`
	ImageBaseURL      string        `mapstructure:"image_base_url"`
	DefaultLocale     string        `mapstructure:"default_locale"`
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

type StoreConfig struct {
	DBPath   string `mapstructure:"db_path"`
	RedisURL string `mapstructure:"redis_url"`
}

type RefreshConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// ExitLevel, when set, makes logging at exactly that level terminate the process.
	ExitLevel string `mapstructure:"exit_level"`
}

// envBindings maps config keys to the variable names used by the deployment.
var envBindings = map[string]string{
	"env":                      "ENV",
	"server.port":              "PORT",
	"server.cors_origins":      "CORS_ORIGINS",
	"tmdb.api_url":             "TMDB_API_URL",
	"tmdb.api_key":             "TMDB_API_KEY",
	"tmdb.api_token":           "TMDB_API_TOKEN",
	"tmdb.image_base_url":      "TMDB_IMAGE_BASE_URL",
	"tmdb.default_locale":      "DEFAULT_LOCALE",
	"tmdb.requests_per_second": "TMDB_RPS",
	"store.db_path":            "DB_PATH",
	"store.redis_url":          "REDIS_URL",
	"refresh.enabled":          "REFRESH_ENABLED",
	"refresh.cron":             "REFRESH_CRON",
	"log.level":                "LOG_LEVEL",
	"log.exit_level":           "LOG_EXIT_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", string(Local))
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("tmdb.api_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p")
	v.SetDefault("tmdb.default_locale", "zh-CN")
	v.SetDefault("tmdb.requests_per_second", 4)
	v.SetDefault("tmdb.timeout", 10*time.Second)
	v.SetDefault("store.db_path", "./data/movie-discovery.db")
	v.SetDefault("refresh.enabled", true)
	v.SetDefault("refresh.cron", "0 4 * * *")
	v.SetDefault("log.level", "debug")
}

// Load reads configuration. configFile may be empty, in which case only defaults and
// the environment are used.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	if !c.Env.Valid() {
		c.Env = Local
	}
	c.TMDB.APIURL = strings.TrimSuffix(strings.TrimSpace(c.TMDB.APIURL), "/")
	c.TMDB.ImageBaseURL = strings.TrimSuffix(strings.TrimSpace(c.TMDB.ImageBaseURL), "/")

	// CORS_ORIGINS arrives as a single comma separated string from the environment.
	var origins []string
	for _, raw := range c.Server.CORSOrigins {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	c.Server.CORSOrigins = origins
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.TMDB.APIKey) == "" && strings.TrimSpace(c.TMDB.APIToken) == "" {
		return errors.New("TMDB_API_TOKEN or TMDB_API_KEY is required")
	}
	if c.TMDB.APIURL == "" {
		return errors.New("TMDB_API_URL is required")
	}
	if c.Server.Port == "" {
		return errors.New("PORT is required")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func (c *Config) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ExitLevel reports the level that should stop the process, if one is configured.
func (c *Config) ExitLevel() (slog.Level, bool) {
	raw := strings.TrimSpace(c.Log.ExitLevel)
	if raw == "" {
		return 0, false
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return 0, false
	}
	return lvl, true
}
