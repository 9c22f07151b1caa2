package gate

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"searchgate/config"
	"searchgate/core/types"
)

// Options wires an Engine. Search settings are expected to have defaults applied.
type Options struct {
	Search    config.SearchConfig
	Provider  types.SearchProvider
	Messenger types.Messenger
	Sink      types.ContextSink
	Auditor   Auditor
	Logger    *zap.Logger
	Metrics   *Metrics
	Now       func() time.Time
}

// Engine owns one pending store and the handlers built around it.
// User messages go through the direct-search and confirmation interceptors;
// agent messages go through the correlator.
type Engine struct {
	store      *Store
	cooldown   *CooldownGate
	executor   *Executor
	correlator *Correlator
	confirm    *ConfirmationHandler
	direct     *DirectHandler
	logger     *zap.Logger
	now        func() time.Time

	dedupMu  sync.Mutex
	dedup    *lru.Cache[string, time.Time]
	dedupTTL time.Duration
}

// NewEngine builds an engine from opts
func NewEngine(opts Options) (*Engine, error) {
	if opts.Provider == nil {
		return nil, errors.New("gate: a search provider is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := opts.Search

	dedupSize := s.DedupCacheSize
	if dedupSize <= 0 {
		dedupSize = config.DefaultDedupCacheSize
	}
	dedup, err := lru.New[string, time.Time](dedupSize)
	if err != nil {
		return nil, err
	}

	validator := NewValidator(s.MinQueryLength, s.MaxQueryLength)
	store := NewStore(s.ConfirmTimeout())
	cooldown := NewCooldownGate(s.Cooldown())

	executor := NewExecutor(ExecutorConfig{
		Provider:   opts.Provider,
		Store:      store,
		Messenger:  opts.Messenger,
		Sink:       opts.Sink,
		Auditor:    opts.Auditor,
		MaxResults: s.MaxResults,
		Logger:     logger.Named("executor"),
		Metrics:    opts.Metrics,
		Now:        now,
	})

	correlator := NewCorrelator(s.AISearchFlag, s.ConfirmPrefix, validator, store,
		NewIDGenerator("ai", now), opts.Messenger, now, logger.Named("correlator"), opts.Metrics)
	confirm := NewConfirmationHandler(s.ConfirmPrefix, store, executor, s.BindChannel,
		opts.Messenger, now, logger.Named("confirm"), opts.Metrics)
	direct := NewDirectHandler(s.UserSearchPrefix, validator, cooldown,
		NewIDGenerator("user", now), executor, opts.Messenger, now, logger.Named("direct"), opts.Metrics)

	return &Engine{
		store:      store,
		cooldown:   cooldown,
		executor:   executor,
		correlator: correlator,
		confirm:    confirm,
		direct:     direct,
		logger:     logger,
		now:        now,
		dedup:      dedup,
		dedupTTL:   s.DedupTTL(),
	}, nil
}

// HandleUserMessage runs the user interceptors and reports whether one handled msg
func (e *Engine) HandleUserMessage(ctx context.Context, msg types.Message) bool {
	if e.seen("user", msg.ID) {
		return true
	}
	if e.direct.Handle(ctx, msg) {
		return true
	}
	return e.confirm.Handle(ctx, msg)
}

// HandleAgentMessage runs the correlator and reports whether msg carried a search request
func (e *Engine) HandleAgentMessage(ctx context.Context, msg types.Message) bool {
	if e.seen("agent", msg.ID) {
		return true
	}
	return e.correlator.Handle(ctx, msg)
}

// Confirm approves a pending request directly, bypassing message parsing
func (e *Engine) Confirm(ctx context.Context, id, channel string) (PendingRequest, error) {
	return e.confirm.Confirm(ctx, id, channel)
}

// Store exposes the pending store
func (e *Engine) Store() *Store {
	return e.store
}

// Sweep removes expired entries now
func (e *Engine) Sweep() []string {
	removed := e.store.Sweep(e.now())
	if len(removed) > 0 {
		e.logger.Debug("swept expired search requests", zap.Strings("request_ids", removed))
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done. Lookups check age on
// their own, so this only bounds memory held by unconfirmed requests.
func (e *Engine) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Sweep()
		}
	}
}

// Wait blocks until in-flight searches have finished
func (e *Engine) Wait() {
	e.executor.Wait()
}

// seen records id and reports whether it was already handled within the TTL
func (e *Engine) seen(stream, id string) bool {
	if id == "" {
		return false
	}
	key := stream + ":" + id
	now := e.now()

	e.dedupMu.Lock()
	defer e.dedupMu.Unlock()

	if ts, ok := e.dedup.Get(key); ok {
		if e.dedupTTL <= 0 || now.Sub(ts) <= e.dedupTTL {
			e.logger.Debug("dropping redelivered message", zap.String("message_id", id))
			return true
		}
		e.dedup.Remove(key)
	}
	e.dedup.Add(key, now)
	return false
}
