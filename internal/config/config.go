package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	RemoteDBURL      string // empty means local-only mode
	LocalDBPath      string
	LogFile          string
	MerchantName     string
	TelegramBotToken string
	TelegramChatID   string
}

func Load() Config {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	cfg := Config{
		Port:             envOr("PORT", "8080"),
		RemoteDBURL:      os.Getenv("REMOTE_DB_URL"),
		LocalDBPath:      envOr("LOCAL_DB_PATH", "tillpoint.db"),
		LogFile:          os.Getenv("LOG_FILE"),
		MerchantName:     envOr("MERCHANT_NAME", "Al Rawda Trading"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
	}

	remote := "configured"
	if cfg.RemoteDBURL == "" {
		remote = "local-only"
	}
	log.Printf("[config] PORT=%s LOCAL_DB_PATH=%s remote=%s", cfg.Port, cfg.LocalDBPath, remote)
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
