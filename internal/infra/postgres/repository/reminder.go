package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	"github.com/aliskhannn/hifdh-bot/internal/infra/postgres"
)

// ReminderRepository finds idle memorization sessions of active users.
type ReminderRepository struct {
	db postgres.DBTX
}

// NewRemindersRepository creates a new ReminderRepository.
func NewRemindersRepository(db postgres.DBTX) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// ListIdle returns unfinished sessions untouched since idleSince that were not reminded
// after their last activity (paginated).
func (r *ReminderRepository) ListIdle(ctx context.Context, idleSince time.Time, limit, offset int) ([]*entities.IdleSession, error) {
	query := `
		SELECT
			ps.user_id,
			u.chat_id,
			ps.surah_number,
			ps.current_ayah,
			ps.total_ayahs,
			ps.stage,
			ps.updated_at
		FROM progression_states ps
		INNER JOIN users u ON ps.user_id = u.id
		WHERE u.is_active = true
			AND ps.stage <> $1
			AND ps.updated_at <= $2
			AND (ps.reminded_at IS NULL OR ps.reminded_at < ps.updated_at)
		ORDER BY ps.updated_at, ps.user_id, ps.surah_number
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, string(entities.StageComplete), idleSince, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list idle sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*entities.IdleSession
	for rows.Next() {
		var s entities.IdleSession
		var stage string

		if err := rows.Scan(
			&s.UserID,
			&s.ChatID,
			&s.Surah,
			&s.CurrentAyah,
			&s.TotalAyahs,
			&stage,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan idle session: %w", err)
		}

		s.Stage = entities.Stage(stage)
		sessions = append(sessions, &s)
	}

	return sessions, rows.Err()
}

// MarkReminded records that a reminder for the session was sent at the given time.
// updated_at is left alone so the session stays idle.
func (r *ReminderRepository) MarkReminded(ctx context.Context, userID int64, surah int, at time.Time) error {
	query := `
		UPDATE progression_states
		SET reminded_at = $3
		WHERE user_id = $1 AND surah_number = $2
	`

	if _, err := r.db.Exec(ctx, query, userID, surah, at); err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}
