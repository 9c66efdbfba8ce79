package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gookit/validate"
	"github.com/itizir/blobstats/emojistats"
	"github.com/itizir/blobstats/logger"
	"github.com/itizir/blobstats/store"
	"github.com/spf13/viper"
)

type config struct {
	Token     string `mapstructure:"token" validate:"required"`
	AppID     string `mapstructure:"app_id"`
	GuildID   string `mapstructure:"guild_id"`
	PublicKey string `mapstructure:"public_key"`
	Port      string `mapstructure:"port" validate:"required|numeric"`

	ReferenceGuildID string `mapstructure:"reference_guild_id" validate:"required|numeric"`
	InviteURL        string `mapstructure:"invite_url" validate:"required"`

	LogLevel string `mapstructure:"log_level" validate:"in:debug,info,warn,error"`
	LogFile  string `mapstructure:"log_file"`

	StoreBackend string        `mapstructure:"store_backend" validate:"required|in:json,redis,sqlite"`
	StorePath    string        `mapstructure:"store_path"`
	RedisURL     string        `mapstructure:"redis_url"`
	StoreTimeout time.Duration `mapstructure:"store_timeout"`
}

func (c *config) storeConfig() store.Config {
	return store.Config{Backend: c.StoreBackend, Path: c.StorePath, RedisURL: c.RedisURL}
}

func (c *config) statsConfig() emojistats.Config {
	return emojistats.Config{
		ReferenceGuildID: c.ReferenceGuildID,
		InviteURL:        c.InviteURL,
		Timeout:          c.StoreTimeout,
	}
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("token", "")
	v.SetDefault("app_id", "")
	v.SetDefault("guild_id", "")
	v.SetDefault("public_key", "")
	v.SetDefault("port", "8080")
	v.SetDefault("reference_guild_id", emojistats.DefaultReferenceGuildID)
	v.SetDefault("invite_url", emojistats.DefaultInviteURL)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("store_backend", store.BackendJSON)
	v.SetDefault("store_path", "emoji_statistics.json")
	v.SetDefault("redis_url", "")
	v.SetDefault("store_timeout", 5*time.Second)

	v.AutomaticEnv()
	// names shared with the deployment environment
	_ = v.BindEnv("token", "BOT_TOKEN")
	_ = v.BindEnv("public_key", "PUBKEY")

	return v
}

// loadConfig reads an optional config file, then the environment, then secrets.
func loadConfig(ctx context.Context, v *viper.Viper, path string) (*config, error) {
	if path != "" {
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := loadSecrets(ctx, v); err != nil {
		return nil, err
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.StoreBackend = strings.ToLower(cfg.StoreBackend)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *config) validate() error {
	if v := validate.Struct(c); !v.Validate() {
		return fmt.Errorf("invalid config: %w", v.Errors)
	}

	switch c.StoreBackend {
	case store.BackendRedis:
		if c.RedisURL == "" {
			return errors.New("invalid config: redis_url is required for the redis store")
		}
	default:
		if c.StorePath == "" {
			return fmt.Errorf("invalid config: store_path is required for the %s store", c.StoreBackend)
		}
	}
	return nil
}

// watchConfig applies log level changes made to the config file without a restart.
func watchConfig(v *viper.Viper, log *slog.Logger) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		lvl := v.GetString("log_level")
		logger.SetLevel(lvl)
		log.Info("config changed", "file", e.Name, "log_level", lvl)
	})
	v.WatchConfig()
}
