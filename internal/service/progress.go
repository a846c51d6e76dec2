package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

// SurahProgress is one started surah in a progress summary.
type SurahProgress struct {
	Surah entities.Surah
	State entities.ProgressionState
}

// ProgressSummary is the overall memorization progress of a user.
type ProgressSummary struct {
	SurahsStarted   int
	SurahsCompleted int
	AyahsMemorized  int
	Percentage      float64 // of all ayahs of the Quran
	Attempts        entities.AttemptStats
	Surahs          []SurahProgress // most recently active first
}

// Accuracy returns the share of passed recall tests as a percentage.
func (p ProgressSummary) Accuracy() float64 {
	return p.Attempts.Accuracy()
}

type ProgressService struct {
	progress ProgressRepository
	surahs   SurahCatalog
	logger   *zap.Logger
}

func NewProgressService(progress ProgressRepository, surahs SurahCatalog, logger *zap.Logger) *ProgressService {
	return &ProgressService{progress: progress, surahs: surahs, logger: logger}
}

// GetSummary aggregates all sessions and recall tests of a user.
func (s *ProgressService) GetSummary(ctx context.Context, userID int64) (*ProgressSummary, error) {
	states, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	stats, err := s.progress.GetAttemptStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get attempt stats: %w", err)
	}

	summary := &ProgressSummary{
		SurahsStarted: len(states),
		Attempts:      *stats,
		Surahs:        make([]SurahProgress, 0, len(states)),
	}

	for _, st := range states {
		surah, err := s.surahs.GetByNumber(ctx, st.Surah)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			s.logger.Warn("progress for unknown surah",
				zap.Int64("user_id", userID),
				zap.Int("surah", st.Surah),
				zap.Error(err),
			)
			surah = &entities.Surah{Number: st.Surah, AyahCount: st.TotalAyahs}
		}

		if st.IsComplete() {
			summary.SurahsCompleted++
		}
		summary.AyahsMemorized += st.MemorizedAyahs()
		summary.Surahs = append(summary.Surahs, SurahProgress{Surah: *surah, State: *st})
	}

	summary.Percentage = float64(summary.AyahsMemorized) / float64(entities.TotalAyahs) * 100
	return summary, nil
}
