package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/hifdh-bot/internal/infra/postgres/repository"
)

// ResetService wipes the whole memorization history of a user.
type ResetService struct {
	tr Transactor
}

func NewResetService(tr Transactor) *ResetService {
	return &ResetService{tr: tr}
}

func (s *ResetService) ResetUser(ctx context.Context, userID int64) error {
	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return repository.NewResetRepository(tx).ResetUser(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("reset user: %w", err)
	}
	return nil
}
