package setup

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"searchgate/capabilities/web"
	"searchgate/config"
	"searchgate/core/audit"
	"searchgate/core/types"
	"searchgate/gate"
	"searchgate/mcp"
	"searchgate/memory"
	"searchgate/session"
)

// Bootstrap contains all initialized components
type Bootstrap struct {
	Engine        *gate.Engine
	Provider      types.SearchProvider
	Memory        *memory.Store
	History       *session.History
	MCPClient     *mcp.Client
	Audit         *audit.Logger
	Registry      *prometheus.Registry
	MetricsServer *http.Server
}

// Initialize builds the engine and its collaborators. messenger receives every notification.
func Initialize(ctx context.Context, cfg *config.Config, messenger types.Messenger, history *session.History, logger *zap.Logger) (*Bootstrap, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bootstrap{History: history}

	b.MCPClient = InitializeMCPClient(ctx, cfg, logger)

	provider, err := NewProvider(cfg, b.MCPClient)
	if err != nil {
		b.Cleanup()
		return nil, err
	}
	b.Provider = provider

	b.Memory = InitializeMemoryStore(cfg, logger)

	var sink types.ContextSink = history
	if b.Memory != nil {
		sink = fanoutSink{b.Memory.Sink(cfg.Memory.Session), history}
	}

	var auditor gate.Auditor
	if cfg.Audit.Enabled {
		b.Audit = audit.NewLogger(cfg.ResolvePath(cfg.Audit.LogPath))
		auditor = b.Audit
	}

	b.Registry = prometheus.NewRegistry()
	metrics := gate.MustNewMetrics(b.Registry)
	b.MetricsServer = StartMetricsServer(cfg.Metrics, b.Registry, logger)

	b.Engine, err = gate.NewEngine(gate.Options{
		Search:    cfg.Search,
		Provider:  provider,
		Messenger: messenger,
		Sink:      sink,
		Auditor:   auditor,
		Logger:    logger.Named("gate"),
		Metrics:   metrics,
	})
	if err != nil {
		b.Cleanup()
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	if interval := cfg.Search.SweepInterval(); interval > 0 {
		go b.Engine.RunSweeper(ctx, interval)
	}

	return b, nil
}

// NewProvider selects the search backend named by cfg.Provider.Type
func NewProvider(cfg *config.Config, client *mcp.Client) (types.SearchProvider, error) {
	switch cfg.Provider.Type {
	case "", "duckduckgo":
		return web.NewDuckDuckGo(cfg.Provider), nil
	case "mcp":
		if client == nil {
			return nil, fmt.Errorf("provider type mcp needs mcp.enabled and a reachable server")
		}
		if !client.HasTool(cfg.Provider.MCPServer, cfg.Provider.MCPTool) {
			return nil, fmt.Errorf("MCP server %q has no tool %q", cfg.Provider.MCPServer, cfg.Provider.MCPTool)
		}
		return mcp.NewSearchProvider(client, cfg.Provider.MCPServer, cfg.Provider.MCPTool), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Provider.Type)
	}
}

// Cleanup waits for in-flight searches and shuts down all components
func (b *Bootstrap) Cleanup() {
	if b.Engine != nil {
		b.Engine.Wait()
	}
	if b.MetricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = b.MetricsServer.Shutdown(ctx)
		cancel()
	}
	if b.Memory != nil {
		b.Memory.Close()
	}
	if b.MCPClient != nil {
		b.MCPClient.Close()
	}
}

// fanoutSink injects into every sink, returning the first error
type fanoutSink []types.ContextSink

func (f fanoutSink) InjectContextualMemory(ctx context.Context, text string) error {
	var firstErr error
	for _, s := range f {
		if err := s.InjectContextualMemory(ctx, text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
