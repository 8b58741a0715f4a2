package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andikar-ai/gateway/bootstrap"
	"github.com/andikar-ai/gateway/config"
	"github.com/andikar-ai/gateway/web"
)

var (
	serveInMemory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway server",
	Long: `Start the Andikar gateway server.

The server will:
  - Load configuration from andikar.yaml (or --config)
  - Or load configuration from environment variables
  - Open the SQLite database and run migrations
  - Seed default pricing plans and the admin account on first run
  - Serve the JSON API with authentication, rate limiting, and usage
    accounting

Environment variables (for Docker deployments):
  SECRET_KEY              - JWT signing secret
  DATABASE_PATH           - SQLite database path (default: andikar.db)
  PORT                    - Server port
  HUMANIZER_API_URL       - Humanizer service URL
  AI_DETECTOR_API_URL     - AI detection service URL
  ANDIKAR_LOG_LEVEL       - Log level: debug, info, warn, error
  ADMIN_USERNAME          - Admin account for first-run bootstrap

Examples:
  andikar serve
  andikar serve --config /etc/andikar/config.yaml
  andikar serve --in-memory

  # Docker (env vars only):
  SECRET_KEY=change-me andikar serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveInMemory, "in-memory", false, "use in-memory stores instead of SQLite")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	if !hasConfigFile && !config.HasEnvConfig() {
		fmt.Println("No configuration found, using built-in defaults.")
		fmt.Println()
		fmt.Printf("Option 1: Create %s\n", cfgFile)
		fmt.Println("Option 2: Set SECRET_KEY and DATABASE_PATH environment variables")
		fmt.Println()
	}

	web.Version = version

	app, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		InMemory:   serveInMemory,
	})
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
