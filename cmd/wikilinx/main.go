// Package main is the entry point for the wikilinx CLI tool.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/wikilinx/wikilinx/internal/cli"
)

func main() {
	// A missing .env is normal; variables already set in the environment win.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
