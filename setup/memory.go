package setup

import (
	"go.uber.org/zap"

	"searchgate/config"
	"searchgate/memory"
)

// InitializeMemoryStore opens the memory database, or returns nil when disabled or unavailable
func InitializeMemoryStore(cfg *config.Config, logger *zap.Logger) *memory.Store {
	if !cfg.Memory.Enabled {
		return nil
	}

	store, err := memory.NewStore(cfg.ResolvePath(cfg.Memory.DBPath))
	if err != nil {
		logger.Warn("failed to open memory store, injected context will not persist", zap.Error(err))
		return nil
	}
	return store
}
