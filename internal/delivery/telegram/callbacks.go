package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/hifdh-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	h.request(tgbotapi.NewCallback(q.ID, ""))

	if q.Message == nil {
		return
	}

	chatID := q.Message.Chat.ID
	msgID := q.Message.MessageID
	userID := q.From.ID

	if _, err := h.users.EnsureUser(ctx, userID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	data := decodeCallback(q.Data)

	var fn HandlerFunc
	switch data.Action {
	case actionSurahs:
		page, _ := data.intParam(0)
		fn = h.surahsPageCallback(msgID, page)
	case actionOpen, actionRepeat, actionAdvance:
		fn = h.stepCallback(userID, msgID, data)
	case actionAnswer:
		fn = h.answerCallback(userID, msgID, data)
	case actionPlan:
		fn = h.planCallback(userID, data)
	case actionProgress:
		fn = h.progressHandler(userID)
	case actionReset:
		fn = h.resetCallback(userID, msgID, data)
	default:
		h.logger.Warn("unknown callback", zap.String("data", data.Raw))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) surahsPageCallback(msgID, page int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := h.surahs.Page(ctx, page, surahsPerPage)
		if err != nil {
			return err
		}

		edit := newEdit(chatID, msgID, formatSurahPage(p))
		markup := buildSurahPageKeyboard(p)
		edit.ReplyMarkup = &markup
		h.send(edit)
		return nil
	}
}

// stepCallback opens a surah, records a repetition or advances.
// Opening sends a new card, the others edit the card in place.
func (h *Handler) stepCallback(userID int64, msgID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		surah, ok := data.intParam(0)
		if !ok {
			return fmt.Errorf("%w: callback %q", service.ErrOutOfRange, data.Raw)
		}

		var (
			step *service.Step
			err  error
		)
		switch data.Action {
		case actionOpen:
			step, err = h.memorize.Start(ctx, userID, surah)
		case actionRepeat:
			step, err = h.memorize.Repeat(ctx, userID, surah)
		case actionAdvance:
			step, err = h.memorize.Advance(ctx, userID, surah)
		}
		if err != nil {
			return err
		}

		if data.Action == actionOpen {
			h.dismissReminder(chatID)
			msg := newMessage(chatID, formatStep(step))
			msg.ReplyMarkup = buildStepKeyboard(step)
			h.send(msg)
			return nil
		}

		h.editStep(chatID, msgID, step)
		return nil
	}
}

func (h *Handler) answerCallback(userID int64, msgID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		surah, ok1 := data.intParam(0)
		option, ok2 := data.intParam(2)
		if !ok1 || !ok2 || len(data.Params) != 3 {
			return fmt.Errorf("%w: callback %q", service.ErrOutOfRange, data.Raw)
		}

		step, err := h.memorize.Answer(ctx, userID, surah, data.Params[1], option)
		if err != nil {
			return err
		}

		h.editStep(chatID, msgID, step)
		return nil
	}
}

func (h *Handler) planCallback(userID int64, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		surahNumber, ok := data.intParam(0)
		if !ok {
			return fmt.Errorf("%w: callback %q", service.ErrOutOfRange, data.Raw)
		}

		surah, tasks, state, err := h.memorize.Plan(ctx, userID, surahNumber)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, formatPlan(surah, tasks, state))
		msg.ReplyMarkup = buildPlanKeyboard(surahNumber)
		h.send(msg)
		return nil
	}
}

func (h *Handler) resetCallback(userID int64, msgID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if len(data.Params) == 0 || data.Params[0] == resetCancel {
			h.send(newEdit(chatID, msgID, md(msgResetCancelled)))
			return nil
		}

		if data.Params[0] != resetConfirm || len(data.Params) != 2 {
			return fmt.Errorf("%w: callback %q", service.ErrOutOfRange, data.Raw)
		}

		if data.Params[1] == resetAll {
			if err := h.resets.ResetUser(ctx, userID); err != nil {
				return err
			}
			h.send(newEdit(chatID, msgID, md(msgResetAllDone)))
			return nil
		}

		surah, err := strconv.Atoi(data.Params[1])
		if err != nil {
			return fmt.Errorf("%w: callback %q", service.ErrOutOfRange, data.Raw)
		}
		if err := h.memorize.Reset(ctx, userID, surah); err != nil {
			return err
		}

		h.send(newEdit(chatID, msgID, md(msgResetSurahDone)))
		return nil
	}
}

func (h *Handler) editStep(chatID int64, msgID int, step *service.Step) {
	edit := newEdit(chatID, msgID, formatStep(step))
	markup := buildStepKeyboard(step)
	edit.ReplyMarkup = &markup
	h.send(edit)
}
