// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	"github.com/aliskhannn/hifdh-bot/internal/service"
)

// Error messages.
const (
	msgIncorrectSurah     = "Некорректный номер суры. Введите число от 1 до 114."
	msgUseMemorize        = "Используйте: /memorize N, например /memorize 112."
	msgUsePlan            = "Используйте: /plan N, например /plan 112."
	msgUseReset           = "Используйте: /reset N, чтобы сбросить суру, или /reset all, чтобы сбросить всё."
	msgOutOfRange         = "Такого варианта нет. Проверьте номер и попробуйте ещё раз."
	msgInvalidState       = "Сейчас это действие недоступно. Откройте суру заново: /memorize N."
	msgInsufficientData   = "Для этой суры пока нет текста аятов. Попробуйте другую суру."
	msgQuizMismatch       = "Этот тест уже неактуален. Ответьте на последний вопрос."
	msgInternalError      = "Что‑то пошло не так. Попробуйте позже."
	msgUnknownCommand     = "Неизвестная команда. Список команд: /help"
	msgResetCancelled     = "Сброс отменён."
	msgResetSurahDone     = "Прогресс по суре сброшен."
	msgResetAllDone       = "Весь прогресс сброшен."
	msgProgressEmpty      = "Вы ещё не начали ни одной суры. Выберите суру: /surahs"
	msgSurahNotStarted    = "Сура ещё не начата."
	msgRepetitionsDone    = "Все повторения сделаны, можно двигаться дальше."
	msgTestDue            = "Блок пройден. Пора проверить себя!"
	msgQuizPrompt         = "Какой аят идёт следующим?"
	msgSurahComplete      = "Сура выучена полностью. Машаллах!"
	msgReminderNextAyah   = "Продолжим заучивание?"
	msgReminderTestWaits  = "Вас ждёт проверка блока."
	msgSurahsListHeader   = "📚 Суры Корана"
	msgProgressListHeader = "Начатые суры:"
)

const (
	msgWelcome = "Ас-саляму алейкум!\n\n" +
		"Этот бот помогает учить суры Корана наизусть: аят за аятом, по 7 повторений, " +
		"с проверкой после каждых 5 аятов.\n\n" +
		"Выберите суру: /surahs\nИли начните сразу: /memorize 112"

	msgHelp = "Команды:\n\n" +
		"/surahs — список сур\n" +
		"/memorize N — учить суру N\n" +
		"/plan N — план заучивания суры N\n" +
		"/progress — ваш прогресс\n" +
		"/reset N — сбросить суру N\n" +
		"/reset all — сбросить весь прогресс\n" +
		"/help — эта справка"
)

const (
	surahsPerPage     = 10
	progressBarLength = 10
	progressListLimit = 10
)

// buildProgressBar creates an ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return strings.Repeat("░", length)
	}

	filled := int(float64(current) / float64(total) * float64(length))
	filled = min(filled, length)

	return fmt.Sprintf("[%s%s]", strings.Repeat("█", filled), strings.Repeat("░", length-filled))
}

func surahTitle(s entities.Surah) string {
	return fmt.Sprintf("%d. %s (%s)", s.Number, s.Name, s.ArabicName)
}

// formatVerse renders the Arabic text with an optional translation.
func formatVerse(v entities.Verse) string {
	var b strings.Builder
	b.WriteString(bold(v.Text))
	if v.Translation != "" {
		b.WriteString("\n\n")
		b.WriteString(italic(v.Translation))
	}
	return b.String()
}

// formatOutcome returns a short line describing the last transition.
func formatOutcome(step *service.Step) string {
	if step.Answer != nil {
		if step.Answer.Passed {
			return md("✅ Верно!")
		}
		return md(fmt.Sprintf("❌ Неверно. Правильный ответ: аят %d. Повторим блок с аята %d.",
			step.Answer.Correct.Ayah, step.State.CurrentAyah))
	}

	switch step.Outcome {
	case entities.OutcomeTestDue:
		return md("📝 " + msgTestDue)
	case entities.OutcomeAdvanced:
		return md(fmt.Sprintf("➡️ Переходим к аяту %d.", step.State.CurrentAyah))
	}
	return ""
}

// formatStep renders the memorization card for the current step.
func formatStep(step *service.Step) string {
	var b strings.Builder

	if outcome := formatOutcome(step); outcome != "" {
		b.WriteString(outcome)
		b.WriteString("\n\n")
	}

	state := step.State
	switch {
	case state.IsComplete():
		b.WriteString(bold("🎉 " + surahTitle(step.Surah)))
		b.WriteString("\n\n")
		b.WriteString(md(msgSurahComplete))

	case step.Quiz != nil:
		b.WriteString(formatQuiz(step.Surah, step.Quiz))

	case step.Verse != nil:
		b.WriteString(bold("📖 " + surahTitle(step.Surah)))
		b.WriteString("\n")
		b.WriteString(md(fmt.Sprintf("Аят %d из %d", state.CurrentAyah, state.TotalAyahs)))
		b.WriteString("\n\n")
		b.WriteString(formatVerse(*step.Verse))
		b.WriteString("\n\n")
		b.WriteString(md(fmt.Sprintf("Повторений: %d/%d %s",
			state.RepetitionCount,
			entities.MaxRepetitions,
			buildProgressBar(state.RepetitionCount, entities.MaxRepetitions, entities.MaxRepetitions),
		)))
		if state.CanAdvance() {
			b.WriteString("\n")
			b.WriteString(md(msgRepetitionsDone))
		}
	}

	return b.String()
}

// formatQuiz renders a recall test with numbered options.
func formatQuiz(surah entities.Surah, quiz *entities.QuizQuestion) string {
	var b strings.Builder

	b.WriteString(bold("📝 Проверка · " + surahTitle(surah)))
	b.WriteString("\n\n")
	b.WriteString(md(fmt.Sprintf("Аят %d:", quiz.PromptVerse.Ayah)))
	b.WriteString("\n")
	b.WriteString(bold(quiz.PromptVerse.Text))
	b.WriteString("\n\n")
	b.WriteString(md(msgQuizPrompt))

	for i, opt := range quiz.Options {
		b.WriteString("\n\n")
		b.WriteString(md(fmt.Sprintf("%d) ", i+1)))
		b.WriteString(md(opt.Text))
	}

	return b.String()
}

// formatPlan renders the plan block by block.
func formatPlan(surah entities.Surah, tasks []entities.Task, state *entities.ProgressionState) string {
	var b strings.Builder

	b.WriteString(bold("🗺 План · " + surahTitle(surah)))
	b.WriteString("\n")
	if state == nil {
		b.WriteString(md(msgSurahNotStarted))
	} else {
		b.WriteString(md(fmt.Sprintf("Выучено: %d из %d %s",
			state.MemorizedAyahs(), state.TotalAyahs,
			buildProgressBar(state.MemorizedAyahs(), state.TotalAyahs, progressBarLength))))
	}
	b.WriteString("\n")

	currentAyah := 0
	for _, t := range tasks {
		if t.Type == entities.TaskAyah && t.Current {
			currentAyah = t.FromAyah
		}
	}

	for _, t := range tasks {
		if t.Type != entities.TaskTest {
			continue
		}

		var line string
		switch {
		case t.Completed:
			line = fmt.Sprintf("✅ Аяты %d-%d", t.FromAyah, t.ToAyah)
		case t.Current:
			line = fmt.Sprintf("📝 Аяты %d-%d: ждёт проверки", t.FromAyah, t.ToAyah)
		case currentAyah >= t.FromAyah && currentAyah <= t.ToAyah:
			line = fmt.Sprintf("▶️ Аяты %d-%d: сейчас аят %d", t.FromAyah, t.ToAyah, currentAyah)
		default:
			line = fmt.Sprintf("🔒 Аяты %d-%d", t.FromAyah, t.ToAyah)
		}

		b.WriteString("\n")
		b.WriteString(md(line))
	}

	return b.String()
}

// formatProgress renders the progress summary of a user.
func formatProgress(summary *service.ProgressSummary) string {
	if summary.SurahsStarted == 0 {
		return md(msgProgressEmpty)
	}

	var b strings.Builder

	b.WriteString(bold("📊 Ваш прогресс"))
	b.WriteString("\n\n")
	b.WriteString(md(fmt.Sprintf("Начато сур: %d", summary.SurahsStarted)))
	b.WriteString("\n")
	b.WriteString(md(fmt.Sprintf("Выучено сур: %d", summary.SurahsCompleted)))
	b.WriteString("\n")
	b.WriteString(md(fmt.Sprintf("Выучено аятов: %d из %d (%.1f%%)",
		summary.AyahsMemorized, entities.TotalAyahs, summary.Percentage)))
	b.WriteString("\n")
	b.WriteString(md(buildProgressBar(summary.AyahsMemorized, entities.TotalAyahs, progressBarLength)))

	if summary.Attempts.Total > 0 {
		b.WriteString("\n\n")
		b.WriteString(md(fmt.Sprintf("Проверки: %d из %d верно (%.0f%%)",
			summary.Attempts.Passed, summary.Attempts.Total, summary.Accuracy())))
	}

	b.WriteString("\n\n")
	b.WriteString(bold(msgProgressListHeader))
	for i, sp := range summary.Surahs {
		if i == progressListLimit {
			b.WriteString("\n")
			b.WriteString(md(fmt.Sprintf("…и ещё %d", len(summary.Surahs)-progressListLimit)))
			break
		}

		mark := "•"
		if sp.State.IsComplete() {
			mark = "✅"
		}
		b.WriteString("\n")
		b.WriteString(md(fmt.Sprintf("%s %s: %d/%d", mark, surahTitle(sp.Surah),
			sp.State.MemorizedAyahs(), sp.State.TotalAyahs)))
	}

	return b.String()
}

// formatSurahPage renders one page of the surah list.
func formatSurahPage(page *service.SurahPage) string {
	var b strings.Builder

	b.WriteString(bold(msgSurahsListHeader))
	b.WriteString(md(fmt.Sprintf(" (%d/%d)", page.Page+1, page.Pages)))
	b.WriteString("\n")

	for _, s := range page.Surahs {
		b.WriteString("\n")
		b.WriteString(md(fmt.Sprintf("%s · %d аятов · джуз %d", surahTitle(*s), s.AyahCount, s.Juz)))
	}

	return b.String()
}

// formatReminder renders an idle reminder.
func formatReminder(payload entities.ReminderPayload) string {
	var b strings.Builder

	b.WriteString(bold("⏰ " + surahTitle(payload.Surah)))
	b.WriteString("\n\n")
	if payload.AwaitingTest {
		b.WriteString(md(msgReminderTestWaits))
	} else {
		b.WriteString(md(fmt.Sprintf("Вы остановились на аяте %d из %d. %s",
			payload.CurrentAyah, payload.Surah.AyahCount, msgReminderNextAyah)))
	}

	return b.String()
}

func formatResetConfirm(surah *entities.Surah) string {
	if surah == nil {
		return md("Сбросить весь прогресс по всем сурам? Это действие нельзя отменить.")
	}
	return md(fmt.Sprintf("Сбросить прогресс по суре %s?", surahTitle(*surah)))
}
