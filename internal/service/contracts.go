package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

// VerseStore is a read-only keyed verse lookup.
type VerseStore interface {
	GetVerse(ctx context.Context, surah, ayah int) (*entities.Verse, error)
	CountVerses(ctx context.Context, surah int) (int, error)
}

type SurahCatalog interface {
	GetByNumber(ctx context.Context, number int) (*entities.Surah, error)
	GetAll(ctx context.Context) ([]*entities.Surah, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	Deactivate(ctx context.Context, userID int64) error
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

type ProgressRepository interface {
	Get(ctx context.Context, userID int64, surah int) (*entities.ProgressionState, error)
	Upsert(ctx context.Context, state *entities.ProgressionState) error
	Delete(ctx context.Context, userID int64, surah int) error
	ListByUser(ctx context.Context, userID int64) ([]*entities.ProgressionState, error)
	// RecordResult stores the state after a test and the attempt atomically.
	RecordResult(ctx context.Context, state *entities.ProgressionState, attempt *entities.TestAttempt) error
	GetAttemptStats(ctx context.Context, userID int64) (*entities.AttemptStats, error)
}

// QuizStorage keeps the pending quiz of every (user, surah) session.
type QuizStorage interface {
	Save(ctx context.Context, q *entities.QuizQuestion) error
	Get(ctx context.Context, userID int64, surah int) (*entities.QuizQuestion, error)
	Delete(ctx context.Context, userID int64, surah int) error
}

// ReminderRepository finds idle sessions and records sent reminders.
type ReminderRepository interface {
	ListIdle(ctx context.Context, idleSince time.Time, limit, offset int) ([]*entities.IdleSession, error)
	MarkReminded(ctx context.Context, userID int64, surah int, at time.Time) error
}

// ReminderNotifier sends reminder notifications to users.
type ReminderNotifier interface {
	SendReminder(chatID int64, payload entities.ReminderPayload) error
}
