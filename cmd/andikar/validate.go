package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andikar-ai/gateway/adapters/sqlite"
	"github.com/andikar-ai/gateway/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration before deployment",
	Long: `Validate the Andikar configuration file.

Checks:
  - YAML syntax is valid
  - Required fields are present and defaults applied
  - Database is writable (optional)

Examples:
  andikar validate
  andikar validate --config /etc/andikar/config.yaml`,
	RunE: runValidate,
}

var (
	validateCheckDatabase bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateCheckDatabase, "check-database", false, "check if database is writable")
}

func runValidate(cmd *cobra.Command, args []string) error {
	fmt.Printf("Validating %s...\n\n", cfgFile)

	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		fmt.Printf("  %s Config file exists\n", crossMark)
		return fmt.Errorf("config file not found: %s", cfgFile)
	}
	fmt.Printf("  %s Config file exists\n", checkMark)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Printf("  %s Config syntax valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Printf("  %s Config syntax valid\n", checkMark)

	fmt.Printf("  %s Listen: %s:%d\n", checkMark, cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("  %s Database: %s\n", checkMark, cfg.Database.Path)
	if cfg.Humanizer.URL != "" {
		fmt.Printf("  %s Humanizer: %s\n", checkMark, cfg.Humanizer.URL)
	} else {
		fmt.Printf("  %s Humanizer: not configured\n", crossMark)
	}
	if cfg.Detector.URL != "" {
		fmt.Printf("  %s Detector: %s\n", checkMark, cfg.Detector.URL)
	} else {
		fmt.Printf("  - Detector: not configured (heuristic fallback)\n")
	}
	fmt.Printf("  %s Rate limit: %d requests / %d seconds\n", checkMark, cfg.RateLimit.MaxRequests, cfg.RateLimit.WindowSecs)

	if validateCheckDatabase {
		if err := checkDatabaseWritable(cfg.Database.Path); err != nil {
			fmt.Printf("  %s Database writable\n", crossMark)
			fmt.Printf("      Error: %v\n", err)
		} else {
			fmt.Printf("  %s Database writable\n", checkMark)
		}
	}

	fmt.Println()
	fmt.Println("Configuration is valid.")
	return nil
}

func checkDatabaseWritable(path string) error {
	db, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Ping()
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
