package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const EnvPrefix = "MINESWEEPER"

type Leaderboard struct {
	// Backend is one of "file", "sqlite", "postgres" or "redis".
	Backend       string `mapstructure:"backend"`
	Dir           string `mapstructure:"dir"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	SQLiteTable   string `mapstructure:"sqlite_table"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	TopSize       int    `mapstructure:"top_size"`
}

// Config holds every setting. SessionTTL is how long an idle server session
// is kept.
type Config struct {
	Development bool          `mapstructure:"development"`
	Addr        string        `mapstructure:"addr"`
	BasePath    string        `mapstructure:"base_path"`
	LogFile     string        `mapstructure:"log_file"`
	Difficulty  string        `mapstructure:"difficulty"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	Leaderboard Leaderboard   `mapstructure:"leaderboard"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("development", false)
	v.SetDefault("addr", ":8080")
	v.SetDefault("base_path", "")
	v.SetDefault("log_file", "")
	v.SetDefault("difficulty", "Medium")
	v.SetDefault("session_ttl", "1h")
	v.SetDefault("leaderboard.backend", "file")
	v.SetDefault("leaderboard.dir", ".")
	v.SetDefault("leaderboard.sqlite_path", "leaderboard.db")
	v.SetDefault("leaderboard.sqlite_table", "leaderboard")
	v.SetDefault("leaderboard.redis_addr", "localhost:6379")
	v.SetDefault("leaderboard.redis_password", "")
	v.SetDefault("leaderboard.redis_db", 0)
	v.SetDefault("leaderboard.top_size", 10)
}

// Load reads defaults, then the optional config file at path, then
// MINESWEEPER_* environment variables (MINESWEEPER_LEADERBOARD_BACKEND for
// leaderboard.backend and so on).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch c.Leaderboard.Backend {
	case "file", "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("unknown leaderboard backend %q", c.Leaderboard.Backend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if c.Leaderboard.TopSize <= 0 {
		return fmt.Errorf("leaderboard top size must be positive, got %d", c.Leaderboard.TopSize)
	}
	return nil
}

func (c Config) Fields() logrus.Fields {
	return logrus.Fields{
		"development":         c.Development,
		"addr":                c.Addr,
		"base_path":           c.BasePath,
		"log_file":            c.LogFile,
		"difficulty":          c.Difficulty,
		"session_ttl":         c.SessionTTL.String(),
		"leaderboard_backend": c.Leaderboard.Backend,
		"leaderboard_dir":     c.Leaderboard.Dir,
		"sqlite_path":         c.Leaderboard.SQLitePath,
		"redis_addr":          c.Leaderboard.RedisAddr,
		"top_size":            c.Leaderboard.TopSize,
	}
}
