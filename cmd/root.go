// =============================================================================
// TAP Validator Core - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'validate') are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (tapvalidator)
//   ├── validateCmd (tapvalidator validate)
//   └── versionCmd (tapvalidator version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (e.g., --config, --verbose)
//   2. Initializing the configuration system
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Olernov/TAP3Loader/internal/config"
	"github.com/Olernov/TAP3Loader/internal/obslog"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// appConfig and logger are populated by initConfig and shared by every
// subcommand.
var appConfig *config.AppConfig
var logger obslog.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
// This is the entry point for the CLI application.
var rootCmd = &cobra.Command{
	Use:   "tapvalidator",
	Short: "TAP Validator Core - Structurally validate TAP3 Data Interchange files and build RAP returns",

	Long: `TAP Validator Core structurally validates decoded GSMA TD.57 TAP3 Data
Interchange values (Transfer Batch or Notification) and, on the first Fatal
finding, constructs and dispatches a TD.32/TD.52 RAP Return Batch back to the
sending network.

Key Features:
  - Fixed, order-sensitive structural validation with short-circuit on first fault
  - Error Context paths derived from ASN.1 tag metadata, not hardcoded
  - RAP identity allocation and DER encoding of the Return Batch
  - FTP dispatch to the sender's roaming hub

Example Usage:
  tapvalidator validate                    # Validate every fixture in the configured directory
  tapvalidator validate --config ./my.yaml # Use a custom configuration file`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	cobra.OnInitialize(initConfig)
}

// initConfig loads the application configuration and wires up the logger.
// Commands that need config/logging read the package-level appConfig/logger
// set here rather than reloading them individually.
func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	appConfig = cfg

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger = obslog.New(level)
}
