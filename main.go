package main

import (
	"github.com/joho/godotenv"

	"regrag/cli"
)

func main() {
	// Provider keys usually live in a local .env; absence is fine.
	_ = godotenv.Load()

	cli.Execute()
}
