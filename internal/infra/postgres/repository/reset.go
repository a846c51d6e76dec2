package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/hifdh-bot/internal/infra/postgres"
)

// ResetRepository wipes a user's memorization history.
type ResetRepository struct {
	db postgres.DBTX
}

func NewResetRepository(db postgres.DBTX) *ResetRepository {
	return &ResetRepository{db: db}
}

// ResetUser deletes all sessions and test attempts of a user. Run it inside a transaction.
func (s *ResetRepository) ResetUser(ctx context.Context, userID int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM test_attempts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete test_attempts: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM progression_states WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete progression_states: %w", err)
	}

	return nil
}
