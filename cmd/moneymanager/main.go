package main

import (
	"log"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/app"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment wins over the file.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
