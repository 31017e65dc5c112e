package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "workspacectl",
		Short: "Inspect the workspace tree and manage notes",
	}
	rootCmd.PersistentFlags().String("api", envOr("WORKSPACE_API_URL", "http://localhost:3000"), "Base URL of the workspace API")
	rootCmd.PersistentFlags().String("token", os.Getenv("WORKSPACE_API_TOKEN"), "Bearer token for the API")

	rootCmd.AddCommand(NewTreeCommand())
	rootCmd.AddCommand(NewNotesCommand())
	rootCmd.AddCommand(NewEventsCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
