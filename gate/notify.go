package gate

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"searchgate/core/types"
)

// DefaultAuthor is the author name stamped on gate notifications
const DefaultAuthor = "SearchGate"

// notifier stamps and delivers system notifications. Send failures are logged, never returned.
type notifier struct {
	messenger types.Messenger
	author    string
	logger    *zap.Logger
}

func (n notifier) send(ctx context.Context, note types.Notification) {
	if n.messenger == nil {
		return
	}
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	if note.Author == "" {
		note.Author = n.author
	}
	note.IsSystem = true

	if err := n.messenger.SendMessage(ctx, note); err != nil {
		n.logger.Warn("failed to deliver notification",
			zap.String("kind", string(note.Kind)),
			zap.String("request_id", note.RequestID),
			zap.Error(err))
	}
}
