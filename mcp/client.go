package mcp

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"searchgate/config"
)

// Client manages connections to MCP servers
type Client struct {
	mu      sync.RWMutex
	servers map[string]*client.Client
	tools   []MCPTool
	config  config.MCPConfig
	logger  *zap.Logger
}

// NewClient creates a new MCP client
func NewClient(cfg config.MCPConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		servers: make(map[string]*client.Client),
		config:  cfg,
		logger:  logger,
	}
}

// Initialize connects to all enabled servers. A server that fails to connect is logged and skipped.
func (c *Client) Initialize(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}

	for name, serverCfg := range c.config.Servers {
		if !serverCfg.Enabled {
			continue
		}

		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := c.connectServer(connectCtx, name, serverCfg)
		cancel()
		if err != nil {
			c.logger.Warn("failed to connect to MCP server", zap.String("server", name), zap.Error(err))
			continue
		}
	}

	return nil
}

// connectServer connects to a single MCP server over stdio
func (c *Client) connectServer(ctx context.Context, name string, cfg config.MCPServerConfig) error {
	envVars := []string{}
	for key, value := range cfg.Env {
		envVars = append(envVars, fmt.Sprintf("%s=%s", key, os.ExpandEnv(value)))
	}

	mcpClient, err := client.NewStdioMCPClient(cfg.Command, envVars, cfg.Args...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "searchgate",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}

	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		mcpClient.Close()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	result, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		mcpClient.Close()
		return fmt.Errorf("failed to list tools: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.servers[name] = mcpClient
	for _, tool := range result.Tools {
		c.tools = append(c.tools, MCPTool{
			ServerName:  name,
			Name:        tool.Name,
			Description: tool.Description,
		})
	}

	c.logger.Info("connected to MCP server", zap.String("server", name), zap.Int("tools", len(result.Tools)))
	return nil
}

// ListTools returns all available MCP tools
func (c *Client) ListTools() []MCPTool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]MCPTool(nil), c.tools...)
}

// HasTool reports whether serverName exposes toolName
func (c *Client) HasTool(serverName, toolName string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tools {
		if t.ServerName == serverName && t.Name == toolName {
			return true
		}
	}
	return false
}

// CallTool executes a tool on the named server and returns its text content
func (c *Client) CallTool(ctx context.Context, serverName, toolName string, arguments map[string]any) (string, error) {
	c.mu.RLock()
	server, exists := c.servers[serverName]
	c.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("server '%s' not connected", serverName)
	}

	result, err := server.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	})
	if err != nil {
		return "", fmt.Errorf("tool call failed: %w", err)
	}

	text := contentText(result.Content)
	if result.IsError {
		if text == "" {
			text = "tool reported an error"
		}
		return "", fmt.Errorf("%s: %s", toolName, text)
	}

	return text, nil
}

// contentText joins the text items of a tool result; other content kinds are skipped
func contentText(contents []mcp.Content) string {
	var parts []string
	for _, content := range contents {
		switch tc := content.(type) {
		case mcp.TextContent:
			parts = append(parts, tc.Text)
		case *mcp.TextContent:
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// GetServerNames returns the connected server names, sorted
func (c *Client) GetServerNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.servers))
	for name := range c.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes all MCP server connections
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, server := range c.servers {
		c.logger.Debug("closing MCP server connection", zap.String("server", name))
		server.Close()
	}
	c.servers = make(map[string]*client.Client)
	c.tools = nil
}
