// Package main is the entry point for the vaultkit CLI tool.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/aidanlsb/vaultkit/internal/cli"
)

func main() {
	// A .env in the working directory may set VAULTKIT_CONFIG or VAULTKIT_MAPPINGS.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
