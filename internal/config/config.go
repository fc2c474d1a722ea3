// Package config loads and validates the TAP Validator Core's
// configuration, following the same load-then-default-then-validate
// pipeline the teacher's CSV-to-XML configuration loader used (read YAML,
// fill defaults, validate, create missing directories).
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// AppConfig is the global application configuration, loaded from a single
// YAML file.
type AppConfig struct {
	// OutputDir is where synthesised RAP files are written before upload
	// (§6: "<output_dir>/<filename>").
	OutputDir string `yaml:"output_dir"`

	// FixtureDir is where decoded-input fixtures are discovered for the
	// validate CLI command (the upstream BER/DER decoder is out of scope,
	// §1 - fixtures stand in for its output).
	FixtureDir string `yaml:"fixture_dir"`

	LogLevel string `yaml:"log_level"`

	// MaxConcurrency bounds how many fixtures are validated concurrently.
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError determines whether a single fixture's failure stops
	// the whole validate run.
	ContinueOnError bool `yaml:"continue_on_error"`

	// LocalNetworkCodes feeds the wrong-addressee stub (§9).
	LocalNetworkCodes []string `yaml:"local_network_codes"`

	Database DatabaseConfig `yaml:"database"`

	// RoamingHubs is keyed by roaming-hub name, matching the DB gateway's
	// roaming_hub_name output (§6's per-hub FTP setting).
	RoamingHubs map[string]RoamingHubConfig `yaml:"roaming_hubs"`
}

// DatabaseConfig configures the relational DB gateway connection.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// RoamingHubConfig is one roaming hub's FTP transport setting (§6).
type RoamingHubConfig struct {
	FTPServer    string `yaml:"ftp_server"`
	FTPPort      string `yaml:"ftp_port"`
	FTPUsername  string `yaml:"ftp_username"`
	FTPPassword  string `yaml:"ftp_password"`
	FTPDirectory string `yaml:"ftp_directory"`
}

// Load reads, defaults, and validates the configuration at configPath.
func Load(configPath string) (*AppConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.FixtureDir == "" {
		cfg.FixtureDir = "./fixtures"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 8
	}
}

// validate creates any missing output/fixture directories, fills in port 21
// for roaming hubs that name a server without a port, and requires
// database.dsn. Directory-creation failures and a missing DSN are collected
// into a single multierror rather than failing on the first one. Roaming-hub
// entries are not otherwise checked and never produce an error.
func validate(cfg *AppConfig) error {
	var result error

	for _, dir := range []string{cfg.OutputDir, cfg.FixtureDir} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				result = multierror.Append(result, fmt.Errorf("failed to create directory %s: %w", dir, err))
			}
		}
	}

	for name, hub := range cfg.RoamingHubs {
		if hub.FTPServer != "" && hub.FTPPort == "" {
			cfg.RoamingHubs[name] = RoamingHubConfig{
				FTPServer:    hub.FTPServer,
				FTPPort:      "21",
				FTPUsername:  hub.FTPUsername,
				FTPPassword:  hub.FTPPassword,
				FTPDirectory: hub.FTPDirectory,
			}
		}
	}

	if cfg.Database.DSN == "" {
		result = multierror.Append(result, fmt.Errorf("database.dsn is required"))
	}

	return result
}
