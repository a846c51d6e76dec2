package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Commands returns the command menu registered with Telegram.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "surahs", Description: "Список сур"},
		{Command: "memorize", Description: "Учить суру: /memorize N"},
		{Command: "plan", Description: "План заучивания суры"},
		{Command: "progress", Description: "Мой прогресс"},
		{Command: "reset", Description: "Сбросить прогресс"},
		{Command: "help", Description: "Справка"},
	}
}

func (h *Handler) surahsHandler(page int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := h.surahs.Page(ctx, page, surahsPerPage)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, formatSurahPage(p))
		msg.ReplyMarkup = buildSurahPageKeyboard(p)
		h.send(msg)
		return nil
	}
}

func (h *Handler) memorizeHandler(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		surah, ok := parseSurahArg(args)
		if !ok {
			h.sendError(chatID, msgUseMemorize)
			return nil
		}

		step, err := h.memorize.Start(ctx, userID, surah)
		if err != nil {
			return err
		}
		h.dismissReminder(chatID)

		msg := newMessage(chatID, formatStep(step))
		msg.ReplyMarkup = buildStepKeyboard(step)
		h.send(msg)
		return nil
	}
}

func (h *Handler) planHandler(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		surahNumber, ok := parseSurahArg(args)
		if !ok {
			h.sendError(chatID, msgUsePlan)
			return nil
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

func (h *Handler) progressHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		summary, err := h.progress.GetSummary(ctx, userID)
		if err != nil {
			return err
		}

		h.send(newMessage(chatID, formatProgress(summary)))
		return nil
	}
}

// resetHandler asks for confirmation before any progress is dropped.
func (h *Handler) resetHandler(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		arg := strings.TrimSpace(args)

		if arg == resetAll {
			msg := newMessage(chatID, formatResetConfirm(nil))
			msg.ReplyMarkup = buildResetKeyboard(resetAll)
			h.send(msg)
			return nil
		}

		number, ok := parseSurahArg(arg)
		if !ok {
			h.sendError(chatID, msgUseReset)
			return nil
		}

		surah, err := h.surahs.GetByNumber(ctx, number)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, formatResetConfirm(surah))
		msg.ReplyMarkup = buildResetKeyboard(strconv.Itoa(number))
		h.send(msg)
		return nil
	}
}
