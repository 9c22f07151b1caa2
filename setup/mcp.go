package setup

import (
	"context"

	"go.uber.org/zap"

	"searchgate/config"
	"searchgate/mcp"
)

// InitializeMCPClient creates and connects the MCP client, or returns nil when disabled
func InitializeMCPClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) *mcp.Client {
	if !cfg.MCP.Enabled {
		return nil
	}

	client := mcp.NewClient(cfg.MCP, logger.Named("mcp"))
	if err := client.Initialize(ctx); err != nil {
		logger.Warn("failed to initialize MCP client", zap.Error(err))
		return nil
	}

	if names := client.GetServerNames(); len(names) > 0 {
		logger.Info("MCP servers active", zap.Strings("servers", names), zap.Int("tools", len(client.ListTools())))
	}

	return client
}
