package telegram

import (
	"context"

	"go.uber.org/zap"
)

// HandlerFunc is a chat-scoped handler step.
type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling turns handler failures into a generic chat message so no
// core error ever surfaces raw to the user.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			h.logger.Error("handler failed",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
		}
		return nil
	}
}
