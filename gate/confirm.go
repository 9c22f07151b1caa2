package gate

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"searchgate/core/types"
)

// ConfirmationHandler resolves "<prefix> <id>" messages against the store
type ConfirmationHandler struct {
	prefix      string
	store       *Store
	executor    *Executor
	bindChannel bool
	notify      notifier
	now         func() time.Time
	logger      *zap.Logger
	metrics     *Metrics
}

// NewConfirmationHandler creates a handler. With bindChannel set, only the channel
// that produced a request can confirm it.
func NewConfirmationHandler(prefix string, store *Store, executor *Executor, bindChannel bool,
	messenger types.Messenger, now func() time.Time, logger *zap.Logger, metrics *Metrics) *ConfirmationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &ConfirmationHandler{
		prefix:      prefix,
		store:       store,
		executor:    executor,
		bindChannel: bindChannel,
		notify:      notifier{messenger: messenger, author: DefaultAuthor, logger: logger},
		now:         now,
		logger:      logger,
		metrics:     metrics,
	}
}

// ParseConfirmation reports whether text is a confirmation command and returns the id token.
// The id is empty when the prefix is not followed by anything.
func ParseConfirmation(prefix, text string) (id string, matched bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || fields[0] != prefix {
		return "", false
	}
	if len(fields) < 2 {
		return "", true
	}
	return fields[1], true
}

// Confirm claims id and, on success, hands the request to the executor.
// The claim marks the entry consumed before the executor starts, so a racing
// duplicate confirmation gets ErrNotFound.
func (h *ConfirmationHandler) Confirm(ctx context.Context, id, channel string) (PendingRequest, error) {
	if id == "" {
		return PendingRequest{}, ErrNotFound
	}

	var allow func(PendingRequest) bool
	if h.bindChannel {
		allow = func(req PendingRequest) bool { return req.Channel == channel }
	}

	req, err := h.store.Claim(id, h.now(), allow)
	if err != nil {
		return req, err
	}

	h.executor.Execute(ctx, Job{
		RequestID: req.ID,
		Query:     req.Query,
		Initiator: types.InitiatorAI,
		Channel:   req.Channel,
	})
	return req, nil
}

// Handle is the user-message interceptor for confirmations
func (h *ConfirmationHandler) Handle(ctx context.Context, msg types.Message) bool {
	id, ok := ParseConfirmation(h.prefix, msg.Content)
	if !ok {
		return false
	}

	req, err := h.Confirm(ctx, id, msg.Channel)
	switch {
	case err == nil:
		h.metrics.confirmation("accepted")
		h.logger.Info("search request confirmed",
			zap.String("request_id", req.ID),
			zap.String("query", req.Query),
			zap.String("author", msg.Author))

	case errors.Is(err, ErrExpired):
		h.metrics.confirmation("expired")
		h.metrics.setPending(h.store.Len())
		h.logger.Info("search request expired", zap.String("request_id", id))
		h.notify.send(ctx, types.Notification{
			Kind:      types.NotifyExpired,
			Content:   "⌛ Search request expired",
			RequestID: id,
			Query:     req.Query,
			Channel:   msg.Channel,
		})

	default:
		h.metrics.confirmation("not_found")
		h.logger.Debug("unknown search request id", zap.String("request_id", id))
		h.notify.send(ctx, types.Notification{
			Kind:      types.NotifyInvalidID,
			Content:   "❌ Invalid search request ID",
			RequestID: id,
			Channel:   msg.Channel,
		})
	}

	return true
}
