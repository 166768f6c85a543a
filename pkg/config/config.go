/*
Package config manages TOML config for the fuzzy-search services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/Geodocque/fuzzy-search/internal/utils"
	"github.com/Geodocque/fuzzy-search/pkg/search"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Search SearchConfig `toml:"search"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// SearchConfig holds the engine tunables. Every knob the matching pipeline
// uses lives here so behavior is testable under varied settings.
type SearchConfig struct {
	CandidateCap   int     `toml:"candidate_cap"`
	ScoreThreshold float64 `toml:"score_threshold"`
	MaxResults     int     `toml:"max_results"`
	PrefixBonus    float64 `toml:"prefix_bonus"`
	MinQueryLen    int     `toml:"min_query_len"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit    int    `toml:"max_limit"`
	MaxQueryLen int    `toml:"max_query_len"`
	// LinkTemplate turns a result's oid into an outbound URL; "{oid}" is
	// replaced with the record's oid. Empty disables links.
	LinkTemplate string `toml:"link_template"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	ShowLinks    bool `toml:"show_links"`
}

// Options converts the search section into engine options.
func (c *Config) Options() search.Options {
	return search.Options{
		CandidateCap:   c.Search.CandidateCap,
		ScoreThreshold: c.Search.ScoreThreshold,
		MaxResults:     c.Search.MaxResults,
		PrefixBonus:    c.Search.PrefixBonus,
		MinQueryLen:    c.Search.MinQueryLen,
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/fuzzysearch
// 2. Current executable dir
// 3. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "fuzzysearch")
	if err := utils.EnsureDir(primaryPath); err == nil {
		return primaryPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			CandidateCap:   500,
			ScoreThreshold: 0.65,
			MaxResults:     20,
			PrefixBonus:    0.09,
			MinQueryLen:    2,
		},
		Server: ServerConfig{
			MaxLimit:    64,
			MaxQueryLen: 120,
		},
		CLI: CliConfig{
			DefaultLimit: 10,
			ShowLinks:    false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to salvage whatever sections of a broken TOML
// file still decode; anything missing keeps its default.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if searchSection, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(searchSection, &config.Search)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

// extractSearchConfig extracts engine configuration from a map
func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractInt64(data, "candidate_cap"); ok {
		search.CandidateCap = val
	}
	if val, ok := utils.ExtractFloat64(data, "score_threshold"); ok {
		search.ScoreThreshold = val
	}
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		search.MaxResults = val
	}
	if val, ok := utils.ExtractFloat64(data, "prefix_bonus"); ok {
		search.PrefixBonus = val
	}
	if val, ok := utils.ExtractInt64(data, "min_query_len"); ok {
		search.MinQueryLen = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query_len"); ok {
		server.MaxQueryLen = val
	}
	if val, ok := utils.ExtractString(data, "link_template"); ok {
		server.LinkTemplate = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_links"); ok {
		cli.ShowLinks = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
