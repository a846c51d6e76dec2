package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	"github.com/aliskhannn/hifdh-bot/internal/service"
)

const surahButtonsPerRow = 5

// buildStepKeyboard creates the keyboard under a memorization card.
func buildStepKeyboard(step *service.Step) tgbotapi.InlineKeyboardMarkup {
	surah := step.State.Surah
	planBtn := tgbotapi.NewInlineKeyboardButtonData("🗺 План", buildSurahCallback(actionPlan, surah))

	switch {
	case step.State.IsComplete():
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				planBtn,
				tgbotapi.NewInlineKeyboardButtonData("📊 Прогресс", buildProgressCallback()),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📚 Другие суры", buildSurahsPageCallback(0)),
			),
		)

	case step.Quiz != nil:
		return buildQuizKeyboard(step.Quiz)
	}

	var row []tgbotapi.InlineKeyboardButton
	if step.State.CanAdvance() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("➡️ Дальше", buildSurahCallback(actionAdvance, surah)))
	} else {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔁 Повторил", buildSurahCallback(actionRepeat, surah)))
	}

	return tgbotapi.NewInlineKeyboardMarkup(row, tgbotapi.NewInlineKeyboardRow(planBtn))
}

// buildQuizKeyboard creates one numbered button per option.
func buildQuizKeyboard(quiz *entities.QuizQuestion) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(quiz.Options))
	for i := range quiz.Options {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			strconv.Itoa(i+1),
			buildAnswerCallback(quiz.Surah, quiz.ID, i),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// buildSurahPageKeyboard creates surah buttons with pagination.
func buildSurahPageKeyboard(page *service.SurahPage) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var row []tgbotapi.InlineKeyboardButton
	for _, s := range page.Surahs {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			strconv.Itoa(s.Number),
			buildSurahCallback(actionOpen, s.Number),
		))
		if len(row) == surahButtonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page.Page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️", buildSurahsPageCallback(page.Page-1)))
	}
	if page.Page < page.Pages-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("▶️", buildSurahsPageCallback(page.Page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildPlanKeyboard(surah int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 Продолжить", buildSurahCallback(actionOpen, surah)),
		),
	)
}

func buildReminderKeyboard(surah int) tgbotapi.InlineKeyboardMarkup {
	return buildPlanKeyboard(surah)
}

func buildResetKeyboard(target string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Сбросить", buildResetConfirmCallback(target)),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", buildResetCancelCallback()),
		),
	)
}
