package main

import (
	"os"

	"github.com/joho/godotenv"

	"sales-insights-go/internal/cli"
)

func main() {
	_ = godotenv.Load() // loads .env

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
