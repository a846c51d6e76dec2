package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
	logger     *zap.Logger
}

func NewUserService(repository UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repository: repository, logger: logger}
}

// EnsureUser registers the user or refreshes their chat. It reports whether the user is new.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) (bool, error) {
	created, err := s.repository.Save(ctx, entities.NewUser(userID, chatID))
	if err != nil {
		return false, fmt.Errorf("ensure user: %w", err)
	}

	if created {
		s.logger.Info("new user registered", zap.Int64("user_id", userID))
	}
	return created, nil
}

// Deactivate stops reminders for a user who blocked the bot.
func (s *UserService) Deactivate(ctx context.Context, userID int64) error {
	if err := s.repository.Deactivate(ctx, userID); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	s.logger.Info("user deactivated", zap.Int64("user_id", userID))
	return nil
}
