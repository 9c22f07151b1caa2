package gate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"searchgate/core/types"
)

// Correlator turns a search request embedded in agent text into a pending entry
// and asks the human to confirm it.
type Correlator struct {
	flag          string
	confirmPrefix string
	pattern       *regexp.Regexp
	validator     Validator
	store         *Store
	ids           *IDGenerator
	notify        notifier
	now           func() time.Time
	logger        *zap.Logger
	metrics       *Metrics
}

// NewCorrelator builds a correlator for flag. The request syntax is the flag
// followed, after optional whitespace, by a double-quoted query.
func NewCorrelator(flag, confirmPrefix string, validator Validator, store *Store, ids *IDGenerator,
	messenger types.Messenger, now func() time.Time, logger *zap.Logger, metrics *Metrics) *Correlator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Correlator{
		flag:          flag,
		confirmPrefix: confirmPrefix,
		pattern:       regexp.MustCompile(regexp.QuoteMeta(flag) + `\s*"(.+?)"`),
		validator:     validator,
		store:         store,
		ids:           ids,
		notify:        notifier{messenger: messenger, author: DefaultAuthor, logger: logger},
		now:           now,
		logger:        logger,
		metrics:       metrics,
	}
}

// Extract returns the raw quoted argument following the flag.
// ok is false when the flag is absent or not followed by a quoted argument.
func (c *Correlator) Extract(text string) (string, bool) {
	if !strings.Contains(text, c.flag) {
		return "", false
	}
	match := c.pattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	arg := match[1]
	if strings.Contains(arg, c.flag) || (c.confirmPrefix != "" && strings.Contains(arg, c.confirmPrefix)) {
		return "", false
	}
	return arg, true
}

// Register validates query, stores it under a fresh id and sends the confirmation prompt
func (c *Correlator) Register(ctx context.Context, rawQuery, channel string) (PendingRequest, error) {
	query, err := c.validator.Validate(rawQuery)
	if err != nil {
		return PendingRequest{}, err
	}

	req := PendingRequest{
		ID:        c.ids.Next(),
		Query:     query,
		Channel:   channel,
		CreatedAt: c.now(),
	}
	if err := c.store.Add(req); err != nil {
		return PendingRequest{}, fmt.Errorf("register %s: %w", req.ID, err)
	}

	c.metrics.requestCreated()
	c.metrics.setPending(c.store.Len())
	c.logger.Info("search request pending confirmation",
		zap.String("request_id", req.ID),
		zap.String("query", req.Query),
		zap.String("channel", channel))

	prompt := fmt.Sprintf("🔍 AI wants to search: %q\nReply \"%s %s\" to approve",
		req.Query, c.confirmPrefix, req.ID)
	c.notify.send(ctx, types.Notification{
		Kind:      types.NotifyPrompt,
		Content:   prompt,
		RequestID: req.ID,
		Query:     req.Query,
		Channel:   channel,
	})

	return req, nil
}

// Handle is the agent-message interceptor. It reports whether msg carried a search request.
func (c *Correlator) Handle(ctx context.Context, msg types.Message) bool {
	raw, ok := c.Extract(msg.Content)
	if !ok {
		return false
	}

	if _, err := c.Register(ctx, raw, msg.Channel); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.notify.send(ctx, types.Notification{
				Kind:    types.NotifyRejected,
				Content: "AI search rejected: " + verr.Error(),
				Query:   strings.TrimSpace(raw),
				Channel: msg.Channel,
			})
			return true
		}
		c.logger.Error("failed to register search request", zap.Error(err))
		c.notify.send(ctx, types.Notification{
			Kind:    types.NotifyFailure,
			Content: "🔴 Search request could not be registered",
			Channel: msg.Channel,
		})
	}
	return true
}
