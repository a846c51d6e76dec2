package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	"github.com/aliskhannn/hifdh-bot/internal/storage"
)

// Notifier delivers reminders. A new reminder replaces the previous one in the chat.
type Notifier struct {
	bot       BotAPI
	users     UserService
	reminders *storage.ReminderStorage
	logger    *zap.Logger
}

func NewNotifier(bot BotAPI, users UserService, reminders *storage.ReminderStorage, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, users: users, reminders: reminders, logger: logger}
}

// SendReminder sends a reminder about an idle surah to a chat.
func (n *Notifier) SendReminder(chatID int64, payload entities.ReminderPayload) error {
	msg := newMessage(chatID, formatReminder(payload))
	msg.ReplyMarkup = buildReminderKeyboard(payload.Surah.Number)

	sent, err := n.bot.Send(msg)
	if err != nil {
		if isBlocked(err) {
			// Private chats share the id of the user.
			if derr := n.users.Deactivate(context.Background(), chatID); derr != nil {
				n.logger.Error("failed to deactivate user",
					zap.Int64("chat_id", chatID),
					zap.Error(derr),
				)
			}
		}
		return fmt.Errorf("send reminder: %w", err)
	}

	prev, ok := n.reminders.Replace(chatID, sent.MessageID, payload.Surah.Number)
	if ok {
		if _, err := n.bot.Request(tgbotapi.NewDeleteMessage(chatID, prev.MessageID)); err != nil {
			n.logger.Debug("failed to delete previous reminder",
				zap.Int64("chat_id", chatID),
				zap.Int("message_id", prev.MessageID),
				zap.Error(err),
			)
		}
	}

	return nil
}

func isBlocked(err error) bool {
	var tgErr *tgbotapi.Error
	return errors.As(err, &tgErr) && tgErr.Code == http.StatusForbidden
}
