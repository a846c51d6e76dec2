package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

func testQuiz(userID int64, surah int, id string) *entities.QuizQuestion {
	return &entities.QuizQuestion{
		ID:          id,
		UserID:      userID,
		Surah:       surah,
		PromptVerse: entities.Verse{Surah: surah, Ayah: 4, Text: "prompt"},
		Options: []entities.Verse{
			{Surah: surah, Ayah: 7, Text: "c"},
			{Surah: surah, Ayah: 5, Text: "a"},
			{Surah: surah, Ayah: 2, Text: "b"},
		},
		CorrectIndex: 1,
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestQuizStorage_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewQuizStorage(0)

	_, err := s.Get(ctx, 1, 2)
	require.ErrorIs(t, err, ErrQuizNotFound)

	require.NoError(t, s.Save(ctx, testQuiz(1, 2, "a")))
	require.NoError(t, s.Save(ctx, testQuiz(1, 3, "b")))
	require.NoError(t, s.Save(ctx, testQuiz(1, 2, "c")))

	got, err := s.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "c", got.ID)

	got, err = s.Get(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)

	require.NoError(t, s.Delete(ctx, 1, 2))
	require.NoError(t, s.Delete(ctx, 1, 2))

	_, err = s.Get(ctx, 1, 2)
	require.ErrorIs(t, err, ErrQuizNotFound)
}

func TestQuizStorage_StoredQuizIsIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewQuizStorage(0)

	q := testQuiz(1, 2, "a")
	require.NoError(t, s.Save(ctx, q))
	q.Options[0].Text = "changed by caller"

	got, err := s.Get(ctx, 1, 2)
	require.NoError(t, err)
	got.Options[1].Text = "changed by reader"
	got.Options = append(got.Options[:1], got.Options[2:]...)

	again, err := s.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, testQuiz(1, 2, "a").Options, again.Options)
}

func TestQuizStorage_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s := NewQuizStorage(time.Hour)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, testQuiz(1, 2, "a")))

	now = now.Add(59 * time.Minute)
	_, err := s.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Zero(t, s.Sweep())

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, 1, 2)
	require.ErrorIs(t, err, ErrQuizNotFound)
	assert.Equal(t, 1, s.Sweep())
}

func TestReminderStorage_Replace(t *testing.T) {
	s := NewReminderStorage()

	_, had := s.Replace(10, 100, 2)
	assert.False(t, had)

	prev, had := s.Replace(10, 101, 3)
	require.True(t, had)
	assert.Equal(t, 100, prev.MessageID)
	assert.Equal(t, 2, prev.Surah)

	msg, ok := s.Take(10)
	require.True(t, ok)
	assert.Equal(t, 101, msg.MessageID)

	_, ok = s.Take(10)
	assert.False(t, ok)
}

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid", "redis://localhost:6379", false},
		{"valid with db", "redis://localhost:6379/1", false},
		{"empty", "", true},
		{"wrong scheme", "http://localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRedisURL(tt.url)
			assert.Equal(t, tt.wantErr, err != nil, "error: %v", err)
		})
	}
}
