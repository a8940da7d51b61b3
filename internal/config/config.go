// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process configuration, read from the environment (and an
// optional .env file or CONFIG_FILE).
type Config struct {
	ListenAddr string
	LogLevel   string
	LogFormat  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	HistorianKey  string

	DatabaseURL string

	JWTSecret  string
	SessionTTL time.Duration

	PhaseOneDuration    time.Duration
	PeekDuration        time.Duration
	StackWindowDuration time.Duration
	ForfeitOnDisconnect bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("HISTORIAN_KEY", "stack:game_actions")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("PHASE_ONE_DURATION", 10*time.Second)
	v.SetDefault("PEEK_DURATION", 5*time.Second)
	v.SetDefault("STACK_WINDOW_DURATION", 10*time.Second)
	v.SetDefault("FORFEIT_ON_DISCONNECT", false)
}

// Load reads .env (if present) into the environment, then resolves every
// setting from the environment and the optional CONFIG_FILE.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		ListenAddr:          v.GetString("LISTEN_ADDR"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		HistorianKey:        v.GetString("HISTORIAN_KEY"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		SessionTTL:          v.GetDuration("SESSION_TTL"),
		PhaseOneDuration:    v.GetDuration("PHASE_ONE_DURATION"),
		PeekDuration:        v.GetDuration("PEEK_DURATION"),
		StackWindowDuration: v.GetDuration("STACK_WINDOW_DURATION"),
		ForfeitOnDisconnect: v.GetBool("FORFEIT_ON_DISCONNECT"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.PhaseOneDuration <= 0 {
		return fmt.Errorf("PHASE_ONE_DURATION must be positive, got %s", c.PhaseOneDuration)
	}
	if c.PeekDuration <= 0 {
		return fmt.Errorf("PEEK_DURATION must be positive, got %s", c.PeekDuration)
	}
	if c.StackWindowDuration < 0 {
		return fmt.Errorf("STACK_WINDOW_DURATION must not be negative, got %s", c.StackWindowDuration)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}
