package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

func TestReminderService_SendIdleReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	repo := &fakeReminderRepo{sessions: []*entities.IdleSession{
		{UserID: 1, ChatID: 10, Surah: 1, CurrentAyah: 3, Stage: entities.StageMemorizing, UpdatedAt: now.Add(-48 * time.Hour)},
		{UserID: 2, ChatID: 20, Surah: 2, CurrentAyah: 5, Stage: entities.StageAwaitingTest, UpdatedAt: now.Add(-25 * time.Hour)},
		{UserID: 3, ChatID: 30, Surah: 3, CurrentAyah: 1, Stage: entities.StageMemorizing, UpdatedAt: now.Add(-time.Hour)},
		{UserID: 4, ChatID: 40, Surah: 114, CurrentAyah: 6, Stage: entities.StageComplete, UpdatedAt: now.Add(-72 * time.Hour)},
	}}
	notifier := &fakeNotifier{}

	svc := NewReminderService(repo, testCatalog(t), 24*time.Hour, "", zap.NewNop())
	svc.now = func() time.Time { return now }
	svc.SetNotifier(notifier)

	sent, err := svc.SendIdleReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	byChat := map[int64]entities.ReminderPayload{}
	for _, s := range notifier.sent {
		byChat[s.chatID] = s.payload
	}
	require.Len(t, byChat, 2)
	assert.Equal(t, "Al-Fatiha", byChat[10].Surah.Name)
	assert.Equal(t, 3, byChat[10].CurrentAyah)
	assert.False(t, byChat[10].AwaitingTest)
	assert.True(t, byChat[20].AwaitingTest)

	// Sessions are reminded once per idle period.
	sent, err = svc.SendIdleReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestReminderService_FailedSendIsRetriedLater(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	repo := &fakeReminderRepo{sessions: []*entities.IdleSession{
		{UserID: 1, ChatID: 10, Surah: 1, Stage: entities.StageMemorizing, UpdatedAt: now.Add(-48 * time.Hour)},
	}}
	notifier := &fakeNotifier{failOn: map[int64]error{10: errors.New("bot was blocked")}}

	svc := NewReminderService(repo, testCatalog(t), 24*time.Hour, "", zap.NewNop())
	svc.now = func() time.Time { return now }
	svc.SetNotifier(notifier)

	sent, err := svc.SendIdleReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, repo.reminded)

	notifier.failOn = nil
	sent, err = svc.SendIdleReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestReminderService_Batches(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	repo := &fakeReminderRepo{}
	for i := 0; i < 250; i++ {
		repo.sessions = append(repo.sessions, &entities.IdleSession{
			UserID:    int64(i + 1),
			ChatID:    int64(1000 + i),
			Surah:     i%114 + 1,
			Stage:     entities.StageMemorizing,
			UpdatedAt: now.Add(-time.Duration(i+25) * time.Hour),
		})
	}
	notifier := &fakeNotifier{failOn: map[int64]error{1005: fmt.Errorf("chat not found")}}

	svc := NewReminderService(repo, testCatalog(t), 24*time.Hour, "", zap.NewNop())
	svc.now = func() time.Time { return now }
	svc.SetNotifier(notifier)

	sent, err := svc.SendIdleReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 249, sent)
	assert.Len(t, repo.reminded, 249)
}

func TestReminderService_RequiresNotifier(t *testing.T) {
	svc := NewReminderService(&fakeReminderRepo{}, testCatalog(t), time.Hour, "", zap.NewNop())
	_, err := svc.SendIdleReminders(context.Background())
	require.Error(t, err)
}

func TestReminderService_StartRejectsBadSchedule(t *testing.T) {
	svc := NewReminderService(&fakeReminderRepo{}, testCatalog(t), time.Hour, "every tuesday", zap.NewNop())
	err := svc.Start(context.Background())
	require.Error(t, err)
}

func TestReminderService_StartStopsWithContext(t *testing.T) {
	svc := NewReminderService(&fakeReminderRepo{}, testCatalog(t), time.Hour, "", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reminder service did not stop")
	}
}
