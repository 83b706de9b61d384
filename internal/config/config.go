// Package config loads ClientHub settings from the environment, with an
// optional .env file underneath.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath          string
	Addr            string
	UploadDir       string
	LogUseCases     bool
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration

	// Telegram notifications are enabled when both are set.
	TelegramToken  string
	TelegramChatID int64
}

// DefaultConfig keeps data under ~/.clienthub.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".clienthub")
	return Config{
		DBPath:          filepath.Join(base, "clienthub.db"),
		Addr:            ":8080",
		UploadDir:       filepath.Join(base, "uploads"),
		LogUseCases:     false,
		MaxUploadBytes:  25 << 20,
		ShutdownTimeout: 5 * time.Second,
	}
}

// LoadDotEnv loads variables from the given files (".env" when none are
// named) without overriding ones already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Load reads configuration from environment variables, falling back to
// defaults for unset or invalid values.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CLIENTHUB_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CLIENTHUB_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("CLIENTHUB_UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("CLIENTHUB_LOG_USECASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogUseCases = b
		}
	}
	if v := os.Getenv("CLIENTHUB_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxUploadBytes = n << 20
		}
	}
	if v := os.Getenv("CLIENTHUB_SHUTDOWN_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ShutdownTimeout = time.Duration(n) * time.Millisecond
		}
	}
	cfg.TelegramToken = os.Getenv("CLIENTHUB_TELEGRAM_TOKEN")
	if v := os.Getenv("CLIENTHUB_TELEGRAM_CHAT_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = n
		}
	}
	return cfg
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
