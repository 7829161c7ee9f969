package main

import (
	"context"
	"log"
	"os"

	"tillpoint/internal/config"
	"tillpoint/internal/migrate"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC)

	if cfg.RemoteDBURL == "" {
		logger.Fatal("REMOTE_DB_URL is not set; nothing to migrate")
	}

	if err := migrate.Apply(context.Background(), cfg.RemoteDBURL); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}
	logger.Println("migrations applied")
}
