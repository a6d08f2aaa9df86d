// Package config reads server settings from flags, a .env file and the
// environment, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/studioanalytics/internal/timezone"
)

type Config struct {
	Address       string `validate:"required"`
	DatabasePath  string `validate:"required"`
	EncryptionKey string `validate:"required,len=16|len=24|len=32"`
	// TelegramToken enables the notification bot when set.
	TelegramToken string
	ArchiveMarker string `validate:"required"`
	LogLevel      string `validate:"oneof=debug info warn error"`
	// Timezone is the IANA zone class times are recorded in.
	Timezone string `validate:"required"`
}

var validate = validator.New()

// Load parses args into a config, then applies envFile (if it exists) and the
// process environment on top.
func Load(set *flag.FlagSet, args []string, envFile string) (*Config, error) {
	cfg := &Config{}
	set.StringVar(&cfg.Address, "address", ":http", "http address to listen to")
	set.StringVar(&cfg.DatabasePath, "database-path", "classdata.db", "path to the database")
	set.StringVar(&cfg.EncryptionKey, "encryption-key", "please-change-me", "encryption key for the stored dataset")
	set.StringVar(&cfg.TelegramToken, "telegram-token", "", "telegram bot token, notifications are disabled when empty")
	set.StringVar(&cfg.ArchiveMarker, "archive-marker", "payroll", "substring identifying the csv inside uploaded archives")
	set.StringVar(&cfg.LogLevel, "log-level", "info", "one of debug, info, warn, error")
	set.StringVar(&cfg.Timezone, "timezone", "UTC", "time zone of the class times in uploaded exports")
	if err := set.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	for name, target := range map[string]*string{
		"ADDRESS":        &cfg.Address,
		"DATABASE_PATH":  &cfg.DatabasePath,
		"ENCRYPTION_KEY": &cfg.EncryptionKey,
		"TELEGRAM_TOKEN": &cfg.TelegramToken,
		"ARCHIVE_MARKER": &cfg.ArchiveMarker,
		"LOG_LEVEL":      &cfg.LogLevel,
		"TIMEZONE":       &cfg.Timezone,
	} {
		if value := os.Getenv(name); value != "" {
			*target = value
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Location() (*time.Location, error) {
	return timezone.Load(c.Timezone)
}

func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
