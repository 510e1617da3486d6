package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/your-org/campustrack/internal/backend/remote"
)

var (
	apiURL     string
	apiTimeout time.Duration
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "trackctl",
	Short: "Query a campustrack API from the command line",
	Long: `trackctl lists tracked persons and cameras, shows dashboard stats and
runs face, id and time searches against a running campustrack API.

The API address is taken from --api or CT_API_URL (a .env file is read if present).`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default $CT_API_URL or http://localhost:8080/v1)")
	rootCmd.PersistentFlags().DurationVar(&apiTimeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	if apiURL == "" {
		apiURL = os.Getenv("CT_API_URL")
	}
	if apiURL == "" {
		apiURL = "http://localhost:8080/v1"
	}
}

func newClient() *remote.Client {
	return remote.New(apiURL, apiTimeout)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
