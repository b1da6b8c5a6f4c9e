package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramToken string
	DBPath        string
	AdminChatID   int64
	TZ            string
	CheckInterval time.Duration
	BirthdayHour  int
}

// Load reads the environment (godotenv is applied by main before
// this runs). Only the token is mandatory.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken: getBotToken(),
		DBPath:        envOr("DB_PATH", "bot.db"),
		TZ:            envOr("BOT_TZ", "Europe/Moscow"),
		CheckInterval: 30 * time.Second,
		BirthdayHour:  9,
	}
	if cfg.TelegramToken == "" {
		return cfg, ErrNoToken
	}
	if v := os.Getenv("ADMIN_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, err
		}
		cfg.AdminChatID = id
	}
	if v := os.Getenv("CHECK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, err
		}
		cfg.CheckInterval = d
	}
	if v := os.Getenv("BIRTHDAY_HOUR"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h < 0 || h > 23 {
			return cfg, ErrBadBirthdayHour
		}
		cfg.BirthdayHour = h
	}
	return cfg, nil
}

// getBotToken prefers the Docker secret over the environment.
func getBotToken() string {
	if data, err := os.ReadFile("/run/secrets/telegram_bot_token"); err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			return token
		}
	}
	return strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
