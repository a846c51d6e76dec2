package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

// DefaultReminderSchedule runs the idle check at the top of every hour.
const DefaultReminderSchedule = "0 * * * *"

// ReminderService nudges users whose memorization sessions went idle.
type ReminderService struct {
	reminderRepo ReminderRepository
	surahs       SurahCatalog
	notifier     ReminderNotifier
	idleAfter    time.Duration
	schedule     string
	logger       *zap.Logger
	now          func() time.Time
}

// NewReminderService creates a new reminder service.
func NewReminderService(
	reminderRepo ReminderRepository,
	surahs SurahCatalog,
	idleAfter time.Duration,
	schedule string,
	logger *zap.Logger,
) *ReminderService {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	return &ReminderService{
		reminderRepo: reminderRepo,
		surahs:       surahs,
		idleAfter:    idleAfter,
		schedule:     schedule,
		logger:       logger,
		now:          time.Now,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the reminder schedule until ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		sent, err := s.SendIdleReminders(ctx)
		if err != nil {
			s.logger.Error("failed to send idle reminders", zap.Error(err))
			return
		}
		s.logger.Info("idle reminders processed", zap.Int("sent", sent))
	})
	if err != nil {
		return fmt.Errorf("add cron job %q: %w", s.schedule, err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
	return nil
}

// SendIdleReminders reminds every idle session once and returns how many reminders were sent.
func (s *ReminderService) SendIdleReminders(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, fmt.Errorf("notifier not initialized")
	}

	const batchSize = 100
	now := s.now().UTC()
	idleSince := now.Add(-s.idleAfter)
	offset := 0
	totalSent := 0

	for {
		sessions, err := s.reminderRepo.ListIdle(ctx, idleSince, batchSize, offset)
		if err != nil {
			return totalSent, fmt.Errorf("list idle sessions: %w", err)
		}
		if len(sessions) == 0 {
			break
		}

		sent := s.processBatch(ctx, sessions, now)
		totalSent += sent

		if len(sessions) < batchSize {
			break
		}

		// Reminded sessions drop out of the listing, failed ones stay and are skipped.
		offset += len(sessions) - sent
	}

	return totalSent, nil
}

// processBatch sends reminders for a batch of sessions concurrently.
func (s *ReminderService) processBatch(ctx context.Context, sessions []*entities.IdleSession, now time.Time) int {
	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	for _, session := range sessions {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.remind(ctx, session, now); err != nil {
				s.logger.Error("failed to send reminder",
					zap.Int64("user_id", session.UserID),
					zap.Int("surah", session.Surah),
					zap.Error(err),
				)
				return
			}

			mu.Lock()
			sent++
			mu.Unlock()
		}()
	}

	wg.Wait()
	return sent
}

func (s *ReminderService) remind(ctx context.Context, session *entities.IdleSession, now time.Time) error {
	surah, err := s.surahs.GetByNumber(ctx, session.Surah)
	if err != nil {
		return fmt.Errorf("get surah: %w", err)
	}

	payload := entities.ReminderPayload{
		Surah:        *surah,
		CurrentAyah:  session.CurrentAyah,
		AwaitingTest: session.Stage == entities.StageAwaitingTest,
	}

	if err := s.notifier.SendReminder(session.ChatID, payload); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	if err := s.reminderRepo.MarkReminded(ctx, session.UserID, session.Surah, now); err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}

	s.logger.Debug("reminder sent",
		zap.Int64("user_id", session.UserID),
		zap.Int("surah", session.Surah),
		zap.Int("ayah", session.CurrentAyah),
	)
	return nil
}
