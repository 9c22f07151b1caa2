package config

import (
	"time"
)

// Config represents the application configuration
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Search    SearchConfig    `yaml:"search"`
	Provider  ProviderConfig  `yaml:"provider"`
	MCP       MCPConfig       `yaml:"mcp"`
	Audit     AuditConfig     `yaml:"audit"`
	Memory    MemoryConfig    `yaml:"memory"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// WorkspaceConfig defines the directory relative paths are resolved against
type WorkspaceConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig holds the trigger tokens and limits of the confirmation gate.
// Zero values are replaced by defaults on load.
type SearchConfig struct {
	AISearchFlag         string `yaml:"ai_search_flag"`
	UserSearchPrefix     string `yaml:"user_search_prefix"`
	ConfirmPrefix        string `yaml:"confirm_prefix"`
	ConfirmTimeoutMS     int    `yaml:"confirm_timeout_ms"`
	MinQueryLength       int    `yaml:"min_query_length"`
	MaxQueryLength       int    `yaml:"max_query_length"`
	CooldownSeconds      int    `yaml:"cooldown_seconds"`
	MaxResults           int    `yaml:"max_results"`
	BindChannel          bool   `yaml:"bind_channel"`           // Only the requesting channel may confirm
	SweepIntervalSeconds int    `yaml:"sweep_interval_seconds"` // 0 = lazy expiry only
	DedupCacheSize       int    `yaml:"dedup_cache_size"`
	DedupTTLSeconds      int    `yaml:"dedup_ttl_seconds"`
}

// ConfirmTimeout returns the confirmation window
func (s SearchConfig) ConfirmTimeout() time.Duration {
	return time.Duration(s.ConfirmTimeoutMS) * time.Millisecond
}

// Cooldown returns the minimum spacing between direct searches
func (s SearchConfig) Cooldown() time.Duration {
	return time.Duration(s.CooldownSeconds) * time.Second
}

// SweepInterval returns the background expiry sweep period (0 disables it)
func (s SearchConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalSeconds) * time.Second
}

// DedupTTL returns how long an inbound message id is remembered
func (s SearchConfig) DedupTTL() time.Duration {
	return time.Duration(s.DedupTTLSeconds) * time.Second
}

// ProviderConfig selects and configures the search backend
type ProviderConfig struct {
	Type      string        `yaml:"type"` // duckduckgo, mcp
	Endpoint  string        `yaml:"endpoint,omitempty"`
	Region    string        `yaml:"region,omitempty"`
	UserAgent string        `yaml:"user_agent,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	MCPServer string        `yaml:"mcp_server,omitempty"` // Used when type is mcp
	MCPTool   string        `yaml:"mcp_tool,omitempty"`
}

// MCPServerConfig represents configuration for an MCP server
type MCPServerConfig struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env,omitempty"`
	Enabled bool              `yaml:"enabled"`
}

// MCPConfig represents the MCP configuration section
type MCPConfig struct {
	Enabled bool                       `yaml:"enabled"`
	Servers map[string]MCPServerConfig `yaml:"servers"`
}

// AuditConfig defines audit logging settings
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	LogPath string `yaml:"log_path"`
}

// MemoryConfig defines where injected search context is persisted
type MemoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
	Session string `yaml:"session"`
}

// LoggingConfig defines logger settings
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// MetricsConfig defines the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}
