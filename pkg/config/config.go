/*
Package config manages TOML config for glyphana services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/virtualritz/glyphana/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Search  SearchConfig  `toml:"search"`
	Catalog CatalogConfig `toml:"catalog"`
	Recent  RecentConfig  `toml:"recent"`
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
}

// SearchConfig has query evaluation options.
type SearchConfig struct {
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
	MaxResults     int     `toml:"max_results"`
	MaxTerms       int     `toml:"max_terms"`
	CaseSensitive  bool    `toml:"case_sensitive"`
}

// CatalogConfig controls which codepoints get indexed.
type CatalogConfig struct {
	IncludePrivateUse bool `toml:"include_private_use"`
}

// RecentConfig bounds the recently-inspected list.
type RecentConfig struct {
	MaxEntries int `toml:"max_entries"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxLimit    int `toml:"max_limit"`
	MaxQueryLen int `toml:"max_query_len"`
}

// StoreConfig points at the persistence database. An empty path means
// [data dir]/glyphana.db.
type StoreConfig struct {
	Path string `toml:"path"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "glyphana")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "glyphana")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
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

// StorePath resolves the database path, falling back to the config dir
// when the configured path is empty.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return utils.GetAbsolutePath(c.Store.Path), nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "glyphana.db"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/glyphana/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			FuzzyThreshold: 0.6,
			MaxResults:     256,
			MaxTerms:       8,
			CaseSensitive:  false,
		},
		Catalog: CatalogConfig{
			IncludePrivateUse: false,
		},
		Recent: RecentConfig{
			MaxEntries: 20,
		},
		Server: ServerConfig{
			MaxLimit:    64,
			MaxQueryLen: 120,
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

// LoadConfig loads from a TOML file. Missing keys keep their defaults;
// out-of-range values are clamped back to them.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return nil, err
	}
	config.clamp()
	return config, nil
}

func (c *Config) clamp() {
	def := DefaultConfig()
	if c.Search.FuzzyThreshold <= 0 || c.Search.FuzzyThreshold > 1 {
		c.Search.FuzzyThreshold = def.Search.FuzzyThreshold
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = def.Search.MaxResults
	}
	if c.Search.MaxTerms <= 0 {
		c.Search.MaxTerms = def.Search.MaxTerms
	}
	if c.Recent.MaxEntries <= 0 {
		c.Recent.MaxEntries = def.Recent.MaxEntries
	}
	if c.Server.MaxLimit <= 0 {
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.MaxQueryLen <= 0 {
		c.Server.MaxQueryLen = def.Server.MaxQueryLen
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
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

// Update changes search options and saves to file
func (c *Config) Update(configPath string, threshold *float64, maxResults, maxTerms *int, caseSensitive *bool) error {
	search := &c.Search
	if threshold != nil {
		search.FuzzyThreshold = *threshold
	}
	if maxResults != nil {
		search.MaxResults = *maxResults
	}
	if maxTerms != nil {
		search.MaxTerms = *maxTerms
	}
	if caseSensitive != nil {
		search.CaseSensitive = *caseSensitive
	}
	c.clamp()
	return SaveConfig(c, configPath)
}
