package config

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"ADDRESS", "DATABASE_PATH", "ENCRYPTION_KEY", "TELEGRAM_TOKEN", "ARCHIVE_MARKER", "LOG_LEVEL", "TIMEZONE"} {
		// Setenv restores the variable on cleanup; unset it so .env files can apply.
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoad_defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Address != ":http" || cfg.ArchiveMarker != "payroll" || cfg.TelegramToken != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Fatalf("expected info level, got %s", cfg.Level())
	}
}

func TestLoad_precedence(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("DATABASE_PATH=/tmp/from-file.db\nARCHIVE_MARKER=hours\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ARCHIVE_MARKER", "payroll-export")

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{
		"-address", ":8080",
		"-database-path", "flag.db",
		"-log-level", "debug",
		"-timezone", "Europe/Stockholm",
	}, envFile)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Address != ":8080" {
		t.Fatalf("expected flag address, got %q", cfg.Address)
	}
	if cfg.DatabasePath != "/tmp/from-file.db" {
		t.Fatalf("expected .env to override flag, got %q", cfg.DatabasePath)
	}
	if cfg.ArchiveMarker != "payroll-export" {
		t.Fatalf("expected environment to win over .env, got %q", cfg.ArchiveMarker)
	}
	if loc, err := cfg.Location(); err != nil || loc.String() != "Europe/Stockholm" {
		t.Fatalf("unexpected location %v, %v", loc, err)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %s", cfg.Level())
	}
}

func TestLoad_missingEnvFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_invalid(t *testing.T) {
	for name, args := range map[string][]string{
		"short key":     {"-encryption-key", "short"},
		"unknown level": {"-log-level", "verbose"},
		"empty marker":  {"-archive-marker", ""},
		"unknown flag":  {"-nope"},
		"unknown zone":  {"-timezone", "Mars/Olympus_Mons"},
	} {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			set := flag.NewFlagSet("test", flag.ContinueOnError)
			set.SetOutput(io.Discard)
			if _, err := Load(set, args, ""); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
