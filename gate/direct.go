package gate

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"searchgate/core/types"
)

// DirectHandler runs "<prefix> <query>" searches immediately. There is no human
// confirmation on this path, so it is throttled by the cooldown gate instead.
type DirectHandler struct {
	prefix    string
	validator Validator
	cooldown  *CooldownGate
	ids       *IDGenerator
	executor  *Executor
	notify    notifier
	now       func() time.Time
	logger    *zap.Logger
	metrics   *Metrics
}

// NewDirectHandler creates a handler for direct user searches
func NewDirectHandler(prefix string, validator Validator, cooldown *CooldownGate, ids *IDGenerator,
	executor *Executor, messenger types.Messenger, now func() time.Time, logger *zap.Logger, metrics *Metrics) *DirectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &DirectHandler{
		prefix:    prefix,
		validator: validator,
		cooldown:  cooldown,
		ids:       ids,
		executor:  executor,
		notify:    notifier{messenger: messenger, author: DefaultAuthor, logger: logger},
		now:       now,
		logger:    logger,
		metrics:   metrics,
	}
}

// matches reports whether text is a direct search command and returns the raw query
func (d *DirectHandler) matches(text string) (string, bool) {
	trimmed := strings.TrimLeft(text, " \t")
	if !strings.HasPrefix(trimmed, d.prefix) {
		return "", false
	}
	rest := trimmed[len(d.prefix):]
	// "/searchfoo" is not "/search foo"
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return rest, true
}

// Search validates the query, admits it through the cooldown gate and starts it.
// The returned id only labels the job; direct searches never enter the store.
func (d *DirectHandler) Search(ctx context.Context, rawQuery, channel string) (string, error) {
	query, err := d.validator.Validate(rawQuery)
	if err != nil {
		return "", err
	}
	if err := d.cooldown.Admit(types.ActorUserDirect, d.now()); err != nil {
		return "", err
	}

	id := d.ids.Next()
	d.executor.Execute(ctx, Job{
		RequestID: id,
		Query:     query,
		Initiator: types.InitiatorUser,
		Channel:   channel,
	})
	return id, nil
}

// Handle is the user-message interceptor for direct searches
func (d *DirectHandler) Handle(ctx context.Context, msg types.Message) bool {
	raw, ok := d.matches(msg.Content)
	if !ok {
		return false
	}

	id, err := d.Search(ctx, raw, msg.Channel)
	if err == nil {
		d.metrics.directSearch("admitted")
		d.logger.Info("direct search started", zap.String("request_id", id))
		return true
	}

	var (
		verr *ValidationError
		cerr *CooldownError
	)
	switch {
	case errors.As(err, &verr):
		d.metrics.directSearch("rejected")
		d.notify.send(ctx, types.Notification{
			Kind:    types.NotifyRejected,
			Content: verr.Error(),
			Query:   strings.TrimSpace(raw),
			Channel: msg.Channel,
		})
	case errors.As(err, &cerr):
		d.metrics.directSearch("cooldown")
		d.notify.send(ctx, types.Notification{
			Kind:    types.NotifyCooldown,
			Content: cerr.Error(),
			Query:   strings.TrimSpace(raw),
			Channel: msg.Channel,
		})
	default:
		d.logger.Error("direct search failed", zap.Error(err))
	}
	return true
}
