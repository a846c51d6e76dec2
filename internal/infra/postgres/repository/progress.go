package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	"github.com/aliskhannn/hifdh-bot/internal/infra/postgres"
)

var ErrProgressNotFound = errors.New("progress not found")

const progressColumns = `
	user_id, surah_number, current_ayah, repetition_count, last_checkpoint,
	total_ayahs, stage, started_at, updated_at, reminded_at, completed_at
`

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ProgressRepository stores memorization states and recall test attempts.
type ProgressRepository struct {
	db postgres.DBTX
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(db postgres.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert creates or replaces the state of a (user, surah) session.
func (r *ProgressRepository) Upsert(ctx context.Context, s *entities.ProgressionState) error {
	query := `
		INSERT INTO progression_states (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, surah_number) DO UPDATE SET
			current_ayah = EXCLUDED.current_ayah,
			repetition_count = EXCLUDED.repetition_count,
			last_checkpoint = EXCLUDED.last_checkpoint,
			total_ayahs = EXCLUDED.total_ayahs,
			stage = EXCLUDED.stage,
			started_at = LEAST(progression_states.started_at, EXCLUDED.started_at),
			updated_at = EXCLUDED.updated_at,
			reminded_at = EXCLUDED.reminded_at,
			completed_at = EXCLUDED.completed_at
	`

	_, err := r.db.Exec(
		ctx,
		query,
		s.UserID,
		s.Surah,
		s.CurrentAyah,
		s.RepetitionCount,
		s.LastCheckpoint,
		s.TotalAyahs,
		string(s.Stage),
		s.StartedAt,
		s.UpdatedAt,
		s.RemindedAt,
		s.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}

	return nil
}

// Get retrieves the state of a (user, surah) session.
func (r *ProgressRepository) Get(ctx context.Context, userID int64, surah int) (*entities.ProgressionState, error) {
	query := `SELECT ` + progressColumns + ` FROM progression_states WHERE user_id = $1 AND surah_number = $2`

	s, err := scanState(r.db.QueryRow(ctx, query, userID, surah))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	return s, nil
}

// ListByUser returns every session of a user, most recently active first.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.ProgressionState, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM progression_states
		WHERE user_id = $1
		ORDER BY updated_at DESC, surah_number
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var states []*entities.ProgressionState
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		states = append(states, s)
	}

	return states, rows.Err()
}

// Delete removes the state of a (user, surah) session. Deleting a missing state is not an error.
func (r *ProgressRepository) Delete(ctx context.Context, userID int64, surah int) error {
	_, err := r.db.Exec(ctx,
		"DELETE FROM progression_states WHERE user_id = $1 AND surah_number = $2", userID, surah)
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// SaveAttempt records an answered recall test.
func (r *ProgressRepository) SaveAttempt(ctx context.Context, a *entities.TestAttempt) error {
	query := `
		INSERT INTO test_attempts (user_id, surah_number, ayah_number, passed, answered_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.Exec(ctx, query, a.UserID, a.Surah, a.Ayah, a.Passed, a.AnsweredAt); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

// RecordResult stores the state after a recall test together with the attempt,
// in one transaction. Inside an outer transaction it runs as a savepoint.
func (r *ProgressRepository) RecordResult(ctx context.Context, s *entities.ProgressionState, a *entities.TestAttempt) error {
	db, ok := r.db.(txBeginner)
	if !ok {
		return fmt.Errorf("record result: %T cannot begin a transaction", r.db)
	}

	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		repo := NewProgressRepository(tx)
		if err := repo.Upsert(ctx, s); err != nil {
			return err
		}
		return repo.SaveAttempt(ctx, a)
	})
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// GetAttemptStats aggregates the recall tests of a user.
func (r *ProgressRepository) GetAttemptStats(ctx context.Context, userID int64) (*entities.AttemptStats, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE passed)
		FROM test_attempts
		WHERE user_id = $1
	`

	var stats entities.AttemptStats
	if err := r.db.QueryRow(ctx, query, userID).Scan(&stats.Total, &stats.Passed); err != nil {
		return nil, fmt.Errorf("get attempt stats: %w", err)
	}
	return &stats, nil
}

func scanState(row pgx.Row) (*entities.ProgressionState, error) {
	var s entities.ProgressionState
	var stage string

	err := row.Scan(
		&s.UserID,
		&s.Surah,
		&s.CurrentAyah,
		&s.RepetitionCount,
		&s.LastCheckpoint,
		&s.TotalAyahs,
		&stage,
		&s.StartedAt,
		&s.UpdatedAt,
		&s.RemindedAt,
		&s.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Stage = entities.Stage(stage)
	return &s, nil
}
