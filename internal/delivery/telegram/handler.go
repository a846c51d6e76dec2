package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/hifdh-bot/internal/storage"
)

const maxConcurrentUpdates = 10

type Handler struct {
	bot       BotAPI
	logger    *zap.Logger
	users     UserService
	surahs    SurahService
	memorize  MemorizationService
	progress  ProgressService
	resets    ResetService
	reminders *storage.ReminderStorage
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	users UserService,
	surahs SurahService,
	memorize MemorizationService,
	progress ProgressService,
	resets ResetService,
	reminders *storage.ReminderStorage,
) *Handler {
	return &Handler{
		bot:       bot,
		logger:    logger,
		users:     users,
		surahs:    surahs,
		memorize:  memorize,
		progress:  progress,
		resets:    resets,
		reminders: reminders,
	}
}

// Run reads updates until ctx is cancelled. Updates are handled concurrently;
// per-surah ordering is enforced by the memorization service.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	var wg sync.WaitGroup
	defer wg.Wait()

	sem := make(chan struct{}, maxConcurrentUpdates)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				h.handleUpdate(ctx, update)
			}()
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID

	if _, err := h.users.EnsureUser(ctx, from.ID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	}

	if !update.Message.IsCommand() {
		h.send(newMessage(chatID, md(msgUnknownCommand)))
		return
	}

	args := update.Message.CommandArguments()

	switch update.Message.Command() {
	case "start":
		h.send(newMessage(chatID, md(msgWelcome)))
	case "help":
		h.send(newMessage(chatID, md(msgHelp)))
	case "surahs":
		_ = h.withErrorHandling(h.surahsHandler(0))(ctx, chatID)
	case "memorize":
		_ = h.withErrorHandling(h.memorizeHandler(from.ID, args))(ctx, chatID)
	case "plan":
		_ = h.withErrorHandling(h.planHandler(from.ID, args))(ctx, chatID)
	case "progress":
		_ = h.withErrorHandling(h.progressHandler(from.ID))(ctx, chatID)
	case "reset":
		_ = h.withErrorHandling(h.resetHandler(args))(ctx, chatID)
	default:
		h.send(newMessage(chatID, md(msgUnknownCommand)))
	}
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newMessage(chatID, md(text)))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.Debug("telegram request failed",
			zap.Error(err),
		)
	}
}

// dismissReminder deletes the last reminder of a chat once the user is back.
func (h *Handler) dismissReminder(chatID int64) {
	if h.reminders == nil {
		return
	}
	if prev, ok := h.reminders.Take(chatID); ok {
		h.request(tgbotapi.NewDeleteMessage(chatID, prev.MessageID))
	}
}
