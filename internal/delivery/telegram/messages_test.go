package telegram

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	"github.com/aliskhannn/hifdh-bot/internal/service"
)

var ikhlas = entities.Surah{Number: 112, Name: "Al-Ikhlas", ArabicName: "الإخلاص", Juz: 30, AyahCount: 4}

func memorizingStep(reps int) *service.Step {
	state := entities.NewProgressionState(1, 112, 4, testTime)
	state.CurrentAyah = 2
	state.RepetitionCount = reps

	return &service.Step{
		Surah: ikhlas,
		State: state,
		Verse: &entities.Verse{Surah: 112, Ayah: 2, Text: "اللَّهُ الصَّمَدُ", Translation: "Allah, the Eternal Refuge"},
	}
}

func callbackOf(t *testing.T, data *string) string {
	t.Helper()
	require.NotNil(t, data)
	return *data
}

func TestBuildProgressBar(t *testing.T) {
	assert.Equal(t, "[█████░░░░░]", buildProgressBar(5, 10, 10))
	assert.Equal(t, "[██████████]", buildProgressBar(12, 10, 10))
	assert.Equal(t, "░░░", buildProgressBar(1, 0, 3))
}

func TestFormatStepMemorizing(t *testing.T) {
	text := formatStep(memorizingStep(3))

	assert.Contains(t, text, "Повторений: 3/7")
	assert.Contains(t, text, "Аят 2 из 4")
	assert.Contains(t, text, "اللَّهُ الصَّمَدُ")
	assert.NotContains(t, text, md(msgRepetitionsDone))
	assert.Contains(t, formatStep(memorizingStep(entities.MaxRepetitions)), md(msgRepetitionsDone))
}

func TestStepKeyboardShowsNextOnlyAtMaxRepetitions(t *testing.T) {
	kb := buildStepKeyboard(memorizingStep(6))
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "rep:112", callbackOf(t, kb.InlineKeyboard[0][0].CallbackData))

	kb = buildStepKeyboard(memorizingStep(entities.MaxRepetitions))
	assert.Equal(t, "adv:112", callbackOf(t, kb.InlineKeyboard[0][0].CallbackData))
	assert.Equal(t, "plan:112", callbackOf(t, kb.InlineKeyboard[1][0].CallbackData))
}

func TestQuizStep(t *testing.T) {
	step := memorizingStep(0)
	step.State.Stage = entities.StageAwaitingTest
	step.Outcome = entities.OutcomeTestDue
	step.Quiz = &entities.QuizQuestion{
		ID:          "quiz-1",
		Surah:       112,
		PromptVerse: entities.Verse{Surah: 112, Ayah: 3, Text: "prompt"},
		Options: []entities.Verse{
			{Surah: 112, Ayah: 1, Text: "first"},
			{Surah: 112, Ayah: 4, Text: "fourth"},
		},
		CorrectIndex: 1,
	}

	text := formatStep(step)
	assert.Contains(t, text, msgQuizPrompt)
	assert.Contains(t, text, "first")
	assert.Contains(t, text, "fourth")

	kb := buildStepKeyboard(step)
	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, "1", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "ans:112:quiz-1:1", callbackOf(t, kb.InlineKeyboard[0][1].CallbackData))
}

func TestFormatStepAnswerFeedback(t *testing.T) {
	step := memorizingStep(0)
	step.State.CurrentAyah = 1
	step.Answer = &service.AnswerFeedback{
		Passed:  false,
		Correct: entities.Verse{Surah: 112, Ayah: 4},
	}

	text := formatStep(step)
	assert.Contains(t, text, "Правильный ответ: аят 4")
	assert.Contains(t, text, "с аята 1")
}

func TestFormatStepComplete(t *testing.T) {
	step := memorizingStep(0)
	step.State.Stage = entities.StageComplete
	step.Verse = nil

	assert.Contains(t, formatStep(step), md(msgSurahComplete))

	kb := buildStepKeyboard(step)
	assert.Equal(t, "plan:112", callbackOf(t, kb.InlineKeyboard[0][0].CallbackData))
	assert.Equal(t, "progress", callbackOf(t, kb.InlineKeyboard[0][1].CallbackData))
}

func TestFormatPlan(t *testing.T) {
	surah := entities.Surah{Number: 2, Name: "Al-Baqarah", ArabicName: "البقرة", AyahCount: 12}
	state := entities.NewProgressionState(1, 2, 12, testTime)
	state.CurrentAyah = 7
	state.LastCheckpoint = 5

	text := formatPlan(surah, service.BuildPlan(surah, &state), &state)

	assert.Contains(t, text, "✅ Аяты 1")
	assert.Contains(t, text, "сейчас аят 7")
	assert.Contains(t, text, "🔒 Аяты 11")
	assert.Contains(t, text, "Выучено: 5 из 12")

	assert.Contains(t, formatPlan(surah, service.BuildPlan(surah, nil), nil), md(msgSurahNotStarted))
}

func TestFormatProgress(t *testing.T) {
	assert.Equal(t, md(msgProgressEmpty), formatProgress(&service.ProgressSummary{}))

	done := entities.NewProgressionState(1, 112, 4, testTime)
	done.Stage = entities.StageComplete

	text := formatProgress(&service.ProgressSummary{
		SurahsStarted:   1,
		SurahsCompleted: 1,
		AyahsMemorized:  4,
		Attempts:        entities.AttemptStats{Total: 2, Passed: 1},
		Surahs:          []service.SurahProgress{{Surah: ikhlas, State: done}},
	})

	assert.Contains(t, text, "Выучено аятов: 4 из 6236")
	assert.Contains(t, text, "Проверки: 1 из 2 верно")
	assert.Contains(t, text, "4/4")
}

func TestSurahPageKeyboard(t *testing.T) {
	surahs := make([]*entities.Surah, 0, 7)
	for i := 11; i <= 17; i++ {
		surahs = append(surahs, &entities.Surah{Number: i, Name: fmt.Sprintf("S%d", i), AyahCount: 10})
	}

	kb := buildSurahPageKeyboard(&service.SurahPage{Surahs: surahs, Page: 1, Pages: 3})

	require.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], surahButtonsPerRow)
	assert.Len(t, kb.InlineKeyboard[1], 2)
	assert.Equal(t, "open:11", callbackOf(t, kb.InlineKeyboard[0][0].CallbackData))
	assert.Equal(t, "surahs:0", callbackOf(t, kb.InlineKeyboard[2][0].CallbackData))
	assert.Equal(t, "surahs:2", callbackOf(t, kb.InlineKeyboard[2][1].CallbackData))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
		ok   bool
	}{
		{fmt.Errorf("answer: %w", service.ErrQuizMismatch), msgQuizMismatch, true},
		{fmt.Errorf("answer: %w", service.ErrOutOfRange), msgOutOfRange, true},
		{fmt.Errorf("repeat: %w", service.ErrInvalidState), msgInvalidState, true},
		{fmt.Errorf("start: %w", service.ErrInsufficientData), msgInsufficientData, true},
		{errors.New("connection refused"), "", false},
	}

	for _, tt := range tests {
		got, ok := userMessage(tt.err)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}
