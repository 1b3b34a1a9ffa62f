package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "approval-server",
	Short:        "Service approval API",
	Long:         `Issues insurance service approvals, validates prescriptions against them and manages system configuration.`,
	Version:      version + " (" + buildDate + ")",
	SilenceUsage: true,
}

func init() {
	// Priority: --config flag > CONFIG_PATH env var > configs/config.yaml discovery
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "Path to the configuration file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(configCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
