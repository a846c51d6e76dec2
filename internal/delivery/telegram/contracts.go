package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	"github.com/aliskhannn/hifdh-bot/internal/service"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) (bool, error)
	Deactivate(ctx context.Context, userID int64) error
}

type SurahService interface {
	GetByNumber(ctx context.Context, number int) (*entities.Surah, error)
	Page(ctx context.Context, page, perPage int) (*service.SurahPage, error)
}

type MemorizationService interface {
	Start(ctx context.Context, userID int64, surah int) (*service.Step, error)
	Current(ctx context.Context, userID int64, surah int) (*service.Step, error)
	Repeat(ctx context.Context, userID int64, surah int) (*service.Step, error)
	Advance(ctx context.Context, userID int64, surah int) (*service.Step, error)
	Answer(ctx context.Context, userID int64, surah int, quizID string, option int) (*service.Step, error)
	Reset(ctx context.Context, userID int64, surah int) error
	Plan(ctx context.Context, userID int64, surah int) (entities.Surah, []entities.Task, *entities.ProgressionState, error)
}

type ProgressService interface {
	GetSummary(ctx context.Context, userID int64) (*service.ProgressSummary, error)
}

type ResetService interface {
	ResetUser(ctx context.Context, userID int64) error
}
