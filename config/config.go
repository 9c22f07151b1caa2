package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the values the gate shipped with before it was configurable.
const (
	DefaultAISearchFlag     = "[SEARCH]"
	DefaultUserSearchPrefix = "/search"
	DefaultConfirmPrefix    = "/confirm_search"
	DefaultConfirmTimeoutMS = 60000
	DefaultMinQueryLength   = 3
	DefaultMaxQueryLength   = 128
	DefaultCooldownSeconds  = 15
	DefaultMaxResults       = 3
	DefaultDedupCacheSize   = 1024
	DefaultDedupTTLSeconds  = 600

	defaultConfigPath = "searchgate.yaml"
)

var globalConfig *Config

// Load reads the configuration file.
// Priority for the path: argument > SEARCHGATE_CONFIG env var > searchgate.yaml
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv("SEARCHGATE_CONFIG")
	}
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return &cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{
		Audit:  AuditConfig{Enabled: true},
		Memory: MemoryConfig{Enabled: true},
	}
	applyDefaults(cfg)
	return cfg
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		return Default()
	}
	return globalConfig
}

// Validate rejects settings the gate cannot run with
func (c *Config) Validate() error {
	s := c.Search
	if s.MinQueryLength > s.MaxQueryLength {
		return fmt.Errorf("search.min_query_length (%d) exceeds search.max_query_length (%d)",
			s.MinQueryLength, s.MaxQueryLength)
	}
	if s.ConfirmPrefix == s.UserSearchPrefix {
		return errors.New("search.confirm_prefix and search.user_search_prefix must differ")
	}
	switch c.Provider.Type {
	case "duckduckgo":
	case "mcp":
		if c.Provider.MCPServer == "" || c.Provider.MCPTool == "" {
			return errors.New("provider.mcp_server and provider.mcp_tool are required for the mcp provider")
		}
	default:
		return fmt.Errorf("unknown provider type %q", c.Provider.Type)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Workspace.Path == "" {
		cfg.Workspace.Path = getDefaultWorkspacePath()
	} else {
		cfg.Workspace.Path = expandHomePath(cfg.Workspace.Path)
	}

	s := &cfg.Search
	if s.AISearchFlag == "" {
		s.AISearchFlag = DefaultAISearchFlag
	}
	if s.UserSearchPrefix == "" {
		s.UserSearchPrefix = DefaultUserSearchPrefix
	}
	if s.ConfirmPrefix == "" {
		s.ConfirmPrefix = DefaultConfirmPrefix
	}
	if s.ConfirmTimeoutMS <= 0 {
		s.ConfirmTimeoutMS = DefaultConfirmTimeoutMS
	}
	if s.MinQueryLength <= 0 {
		s.MinQueryLength = DefaultMinQueryLength
	}
	if s.MaxQueryLength <= 0 {
		s.MaxQueryLength = DefaultMaxQueryLength
	}
	if s.CooldownSeconds <= 0 {
		s.CooldownSeconds = DefaultCooldownSeconds
	}
	if s.MaxResults <= 0 {
		s.MaxResults = DefaultMaxResults
	}
	if s.DedupCacheSize <= 0 {
		s.DedupCacheSize = DefaultDedupCacheSize
	}
	if s.DedupTTLSeconds <= 0 {
		s.DedupTTLSeconds = DefaultDedupTTLSeconds
	}

	if cfg.Provider.Type == "" {
		cfg.Provider.Type = "duckduckgo"
	}
	if cfg.Provider.Timeout <= 0 {
		cfg.Provider.Timeout = 15 * time.Second
	}

	if cfg.Audit.LogPath == "" {
		cfg.Audit.LogPath = ".searchgate/audit.log"
	}
	if cfg.Memory.DBPath == "" {
		cfg.Memory.DBPath = ".searchgate/memory.db"
	}
	if cfg.Memory.Session == "" {
		cfg.Memory.Session = "default"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = "127.0.0.1:9464"
	}
}

// ResolvePath makes a relative path relative to the workspace
func (c *Config) ResolvePath(path string) string {
	path = expandHomePath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Workspace.Path, path)
}

// getDefaultWorkspacePath returns the default workspace path
// Priority: SEARCHGATE_WORKSPACE env var > user home directory > cwd
func getDefaultWorkspacePath() string {
	if workspacePath := os.Getenv("SEARCHGATE_WORKSPACE"); workspacePath != "" {
		return expandHomePath(workspacePath)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return cwd
	}

	return homeDir
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}
