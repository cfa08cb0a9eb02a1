package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// LoadConfig loads configuration with priority: CLI flags > VIDPLAN_* env >
// config file > defaults.
//
// fs may be nil. The file is the --config flag of fs when set, otherwise the
// first file found by FindConfigFile.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	return load(fs, os.LookupEnv)
}

func load(fs *pflag.FlagSet, lookup LookupFunc) (*Config, error) {
	// 1. Start with defaults
	cfg := DefaultConfig()

	// 2. Config file
	configPath := ""
	if fs != nil {
		if f := fs.Lookup(FlagConfig); f != nil {
			configPath = f.Value.String()
		}
	}
	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileCfg, err := LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg = fileCfg
	}

	// 3. Environment
	if err := cfg.MergeFromEnv(lookup); err != nil {
		return nil, err
	}

	// 4. CLI flags (highest priority)
	if fs != nil {
		if err := cfg.MergeFromFlags(fs); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
