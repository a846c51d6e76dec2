package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/hifdh-bot/internal/config"
)

// New builds the application logger: JSON in production, human readable elsewhere.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if cfg.Env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return log.With(zap.String("app", "hifdh-bot"), zap.String("env", cfg.Env)), nil
}
