// =============================================================================
// TAP Validator Core - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which structurally validates
// every Data Interchange fixture in the configured fixture directory and
// builds a RAP Return Batch for each Fatal finding.
//
// COMMAND USAGE:
//   tapvalidator validate [flags]
//
// FLAGS:
//   --single      : Validate only a single fixture (specify with --file)
//   --file        : Path to a specific fixture to validate (used with --single)
//
// VALIDATION PIPELINE:
//   1. Load configuration
//   2. Discover fixture files in the fixture directory
//   3. Connect to the RAP database and construct the Return Batch builder
//   4. For each fixture (concurrently, bounded by MaxConcurrency):
//      a. Load the fixture into a Data Interchange value
//      b. Dispatch it to the validator
//      c. Report the outcome (Tap Valid / Fatal Error / Validation Impossible / Wrong Addressee)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Olernov/TAP3Loader/internal/codec"
	"github.com/Olernov/TAP3Loader/internal/config"
	"github.com/Olernov/TAP3Loader/internal/rap"
	"github.com/Olernov/TAP3Loader/internal/rapftp"
	"github.com/Olernov/TAP3Loader/internal/rapgateway"
	"github.com/Olernov/TAP3Loader/internal/tapvalidate"
	"github.com/Olernov/TAP3Loader/pkg/fixtures"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var validateSingle bool
var validateFile string

// =============================================================================
// VALIDATE COMMAND DEFINITION
// =============================================================================

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate Data Interchange fixtures and build RAP returns for Fatal findings",
	Long: `The validate command scans the fixture directory for decoded Data Interchange
fixtures, runs each one through the structural validator, and constructs a
RAP Return Batch for every Fatal finding.

Validation is done concurrently for maximum throughput. A fixture that fails
to load stops the run unless continue_on_error is set in the configuration.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(
		&validateSingle,
		"single",
		false,
		"Validate only a single fixture (use with --file)",
	)
	validateCmd.Flags().StringVar(
		&validateFile,
		"file",
		"",
		"Path to a specific fixture to validate (used with --single)",
	)
}

// outcome is one fixture's validation result, mirroring converter.Result's
// role in the teacher's process command.
type outcome struct {
	FixturePath string
	Result      tapvalidate.Result
	Err         error
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

func runValidate() error {
	startTime := time.Now()

	fmt.Println("=== TAP Validator Core ===")
	fmt.Println("Loading configuration...")

	cfg := appConfig

	fixturePaths, err := discoverFixtures(cfg, validateSingle, validateFile)
	if err != nil {
		return fmt.Errorf("failed to discover fixtures: %w", err)
	}
	if len(fixturePaths) == 0 {
		fmt.Println("No fixtures found in the fixture directory.")
		return nil
	}
	fmt.Printf("Found %d fixture(s) to validate\n", len(fixturePaths))

	builder, err := newBuilder(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize RAP builder: %w", err)
	}

	fmt.Println("Validating fixtures...")

	results := make(chan outcome, len(fixturePaths))
	sem := make(chan struct{}, cfg.MaxConcurrency)
	var wg sync.WaitGroup

	for _, path := range fixturePaths {
		wg.Add(1)
		go func(fixturePath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			di, err := fixtures.Load(fixturePath)
			if err != nil {
				results <- outcome{FixturePath: fixturePath, Err: err}
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			// One Validator per fixture: it records the RAP identity of its
			// last Fatal finding, so instances are not shared between goroutines.
			validator := tapvalidate.NewValidator(builder, cfg.LocalNetworkCodes, logger)
			result := validator.Validate(ctx, di)
			results <- outcome{FixturePath: fixturePath, Result: result}
		}(path)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var validCount, faultCount, errorCount int
	for res := range results {
		name := filepath.Base(res.FixturePath)
		switch {
		case res.Err != nil:
			errorCount++
			fmt.Printf("  ✗ %s: %v\n", name, res.Err)
			if !cfg.ContinueOnError {
				return fmt.Errorf("validation aborted on %s: %w", name, res.Err)
			}
		case res.Result == tapvalidate.TapValid:
			validCount++
			fmt.Printf("  ✓ %s: %s\n", name, res.Result)
		default:
			faultCount++
			fmt.Printf("  ✗ %s: %s\n", name, res.Result)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Validation Complete ===")
	fmt.Printf("Total fixtures:  %d\n", len(fixturePaths))
	fmt.Printf("Tap Valid:       %d\n", validCount)
	fmt.Printf("Faults raised:   %d\n", faultCount)
	fmt.Printf("Load errors:     %d\n", errorCount)
	fmt.Printf("Time elapsed:    %s\n", elapsed)

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func discoverFixtures(cfg *config.AppConfig, single bool, file string) ([]string, error) {
	if single {
		if file == "" {
			return nil, fmt.Errorf("--single requires --file")
		}
		return []string{file}, nil
	}

	var files []string
	err := filepath.Walk(cfg.FixtureDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// newBuilder wires the RAP Return Batch builder from configuration: a
// Postgres-backed identity gateway, an FTP uploader per roaming hub, and the
// DER encoder.
func newBuilder(cfg *config.AppConfig) (*rap.Builder, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to RAP database: %w", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}

	hubs := make(map[string]rap.HubSetting, len(cfg.RoamingHubs))
	for name, hub := range cfg.RoamingHubs {
		hubs[name] = rap.HubSetting{
			Server:    hub.FTPServer,
			Port:      hub.FTPPort,
			Username:  hub.FTPUsername,
			Password:  hub.FTPPassword,
			Directory: hub.FTPDirectory,
		}
	}

	return &rap.Builder{
		Gateway:   rapgateway.New(db),
		Uploader:  &rapftp.Client{DialTimeoutSeconds: 10},
		DER:       &codec.DER{},
		Hubs:      hubs,
		Logger:    logger,
		OutputDir: cfg.OutputDir,
	}, nil
}
