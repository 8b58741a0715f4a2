package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "andikar",
	Short: "Text humanizing gateway with accounts, rate limiting, and billing",
	Long: `Andikar is a gateway in front of text humanizing and AI-content
detection services.

It manages user accounts and pricing plans, enforces per-plan word
budgets and sliding-window rate limits, tracks daily usage, and bills
plan upgrades through M-Pesa.

Quick start:
  andikar serve     # Start the server

Management:
  andikar validate  # Validate configuration
  andikar version   # Print version information`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "andikar.yaml", "config file path")
}
