package gate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"searchgate/core/audit"
	"searchgate/core/types"
)

// Auditor records finished executions
type Auditor interface {
	LogExecution(entry audit.Entry) error
}

// Job is one approved (or direct) search
type Job struct {
	RequestID string
	Query     string
	Initiator types.InitiatorKind
	Channel   string
}

// ExecutorConfig wires an Executor
type ExecutorConfig struct {
	Provider   types.SearchProvider
	Store      *Store
	Messenger  types.Messenger
	Sink       types.ContextSink
	Auditor    Auditor
	MaxResults int
	Author     string
	Logger     *zap.Logger
	Metrics    *Metrics
	Now        func() time.Time
}

// Executor is the only component that calls the search provider.
// Each job runs in its own goroutine; the outcome is always reported and
// the pending entry is always removed afterwards.
type Executor struct {
	provider   types.SearchProvider
	store      *Store
	sink       types.ContextSink
	auditor    Auditor
	maxResults int
	notify     notifier
	logger     *zap.Logger
	metrics    *Metrics
	now        func() time.Time

	wg sync.WaitGroup
}

// NewExecutor creates an executor
func NewExecutor(cfg ExecutorConfig) *Executor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	author := cfg.Author
	if author == "" {
		author = DefaultAuthor
	}
	return &Executor{
		provider:   cfg.Provider,
		store:      cfg.Store,
		sink:       cfg.Sink,
		auditor:    cfg.Auditor,
		maxResults: cfg.MaxResults,
		notify:     notifier{messenger: cfg.Messenger, author: author, logger: logger},
		logger:     logger,
		metrics:    cfg.Metrics,
		now:        now,
	}
}

// Execute starts job in the background. The job is detached from ctx cancellation:
// once started it runs to completion.
func (e *Executor) Execute(ctx context.Context, job Job) {
	ctx = context.WithoutCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(ctx, job)
	}()
}

// Wait blocks until every started job has finished
func (e *Executor) Wait() {
	e.wg.Wait()
}

func (e *Executor) run(ctx context.Context, job Job) {
	start := e.now()
	var (
		results []types.SearchResult
		err     error
	)

	defer func() {
		if r := recover(); r != nil {
			err = &ProviderError{Provider: e.provider.Name(), Err: fmt.Errorf("provider panicked: %v", r)}
			e.reportFailure(ctx, job, err)
		}
		e.finish(job, start, len(results), err)
	}()

	e.logger.Debug("executing search",
		zap.String("request_id", job.RequestID),
		zap.String("initiator", string(job.Initiator)),
		zap.String("query", job.Query))

	results, err = e.search(ctx, job.Query)
	if err != nil {
		e.reportFailure(ctx, job, err)
		return
	}

	e.deliver(ctx, job, results)
}

func (e *Executor) search(ctx context.Context, query string) ([]types.SearchResult, error) {
	results, err := e.provider.Search(ctx, query, e.maxResults)
	if err != nil {
		return nil, &ProviderError{Provider: e.provider.Name(), Err: err}
	}
	if e.maxResults > 0 && len(results) > e.maxResults {
		results = results[:e.maxResults]
	}
	return results, nil
}

func (e *Executor) deliver(ctx context.Context, job Job, results []types.SearchResult) {
	switch job.Initiator {
	case types.InitiatorAI:
		if e.sink != nil {
			if err := e.sink.InjectContextualMemory(ctx, FormatForAI(job.Query, results)); err != nil {
				e.logger.Warn("context injection failed",
					zap.String("request_id", job.RequestID),
					zap.Error(err))
			}
		}
		e.notify.send(ctx, types.Notification{
			Kind:      types.NotifySuccess,
			Content:   "✅ Search results added to context",
			RequestID: job.RequestID,
			Query:     job.Query,
			Channel:   job.Channel,
		})
	default:
		e.notify.send(ctx, types.Notification{
			Kind:      types.NotifyResults,
			Content:   FormatForUser(job.Query, results),
			RequestID: job.RequestID,
			Query:     job.Query,
			Channel:   job.Channel,
		})
	}
}

func (e *Executor) reportFailure(ctx context.Context, job Job, err error) {
	e.logger.Warn("search failed",
		zap.String("request_id", job.RequestID),
		zap.String("query", job.Query),
		zap.Error(err))

	e.notify.send(ctx, types.Notification{
		Kind:      types.NotifyFailure,
		Content:   "🔴 Search failed: " + err.Error(),
		RequestID: job.RequestID,
		Query:     job.Query,
		Channel:   job.Channel,
	})
}

// finish runs on every path: cleanup, metrics, audit
func (e *Executor) finish(job Job, start time.Time, resultCount int, err error) {
	if e.store != nil {
		e.store.Remove(job.RequestID)
		e.metrics.setPending(e.store.Len())
	}

	elapsed := e.now().Sub(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.execution(job.Initiator, status, elapsed)

	if e.auditor == nil {
		return
	}
	entry := audit.Entry{
		RequestID:   job.RequestID,
		Query:       job.Query,
		Initiator:   job.Initiator,
		Provider:    e.provider.Name(),
		DurationMS:  elapsed.Milliseconds(),
		ResultCount: resultCount,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if logErr := e.auditor.LogExecution(entry); logErr != nil {
		e.logger.Warn("failed to write audit entry", zap.Error(logErr))
	}
}
