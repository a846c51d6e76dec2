package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/hifdh-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling maps domain errors to user messages and logs unexpected ones.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if text, ok := userMessage(err); ok {
			h.logger.Debug("request rejected",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, text)
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}

// userMessage returns the text shown for expected domain errors.
func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrQuizMismatch):
		return msgQuizMismatch, true
	case errors.Is(err, service.ErrOutOfRange):
		return msgOutOfRange, true
	case errors.Is(err, service.ErrInvalidState):
		return msgInvalidState, true
	case errors.Is(err, service.ErrInsufficientData):
		return msgInsufficientData, true
	}
	return "", false
}
