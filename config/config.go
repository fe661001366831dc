package config

import (
	"fmt"
	"path/filepath"

	"github.com/cryptonomex/graphene/cmd/utils"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName  = "config.toml"
	defaultGenesisJSONName = "genesis.json"
)

var (
	defaultConfigFilePath  = filepath.Join(defaultConfigDir, defaultConfigFileName)
	defaultGenesisJSONPath = filepath.Join(defaultConfigDir, defaultGenesisJSONName)
)

// DefaultConfig returns the configuration used when no config file overrides it
func DefaultConfig() *Config {
	return &Config{
		Genesis:             defaultGenesisJSONPath,
		LogLevel:            DefaultPackageLogLevels(),
		LogFormat:           LogFormatPlain,
		LogPath:             "stdout",
		DBBackend:           "memdb",
		DBPath:              defaultDataDir,
		StateCacheSize:      10000,
		KeepLastStates:      120,
		Prometheus:          false,
		PrometheusNamespace: "graphene",
	}
}

// GetConfig returns the default configuration rooted at the graphene home directory
func GetConfig() *Config {
	cfg := DefaultConfig()
	cfg.SetRoot(utils.GetGrapheneHome())
	return cfg
}

// Config defines the configuration of the evaluation node
type Config struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Path to the JSON file containing the initial chain state
	Genesis string `mapstructure:"genesis_file"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log_format"`

	LogPath string `mapstructure:"log_path"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir"`

	StateCacheSize int `mapstructure:"state_cache_size"`

	KeepLastStates int64 `mapstructure:"keep_last_states"`

	// Collect evaluation metrics
	Prometheus bool `mapstructure:"prometheus"`

	PrometheusNamespace string `mapstructure:"prometheus_namespace"`
}

// SetRoot sets the RootDir
func (cfg *Config) SetRoot(root string) *Config {
	cfg.RootDir = root
	return cfg
}

// GenesisFile returns the full path to the genesis.json file
func (cfg *Config) GenesisFile() string {
	return rootify(cfg.Genesis, cfg.RootDir)
}

// DBDir returns the full path to the database directory
func (cfg *Config) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// ValidateBasic checks values a node can not start with
func (cfg *Config) ValidateBasic() error {
	if cfg.KeepLastStates < 1 {
		return fmt.Errorf("keep_last_states field should be greater than 0")
	}
	if cfg.StateCacheSize < 0 {
		return fmt.Errorf("state_cache_size can't be negative")
	}
	switch cfg.LogFormat {
	case LogFormatPlain, LogFormatJSON:
	default:
		return fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}
	return nil
}

// DefaultLogLevel returns a default log level of "error"
func DefaultLogLevel() string {
	return "error"
}

// DefaultPackageLogLevels returns a default log level setting so all packages
// log at "error", while the `state`, `evaluator` and `main` packages log at "info"
func DefaultPackageLogLevels() string {
	return fmt.Sprintf("main:info,state:info,evaluator:info,*:%s", DefaultLogLevel())
}

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
