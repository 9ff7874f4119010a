package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/m3rciful/suvbot/core/cmd"
	"github.com/m3rciful/suvbot/internal/app"
)

func main() {
	// Best effort: a missing .env is the normal production case.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("bot exited: %v", err)
	}
}
