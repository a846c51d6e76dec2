package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/hifdh-bot/internal/config"
	"github.com/aliskhannn/hifdh-bot/internal/delivery/telegram"
	"github.com/aliskhannn/hifdh-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/hifdh-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/hifdh-bot/internal/logger"
	"github.com/aliskhannn/hifdh-bot/internal/repository"
	"github.com/aliskhannn/hifdh-bot/internal/service"
	"github.com/aliskhannn/hifdh-bot/internal/storage"
)

const quizSweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("bot stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	// Read-only sources.
	surahRepo, err := repository.NewSurahRepository(cfg.SurahsJSONPath)
	if err != nil {
		return err
	}

	verseRepo, err := repository.OpenVerseRepository(ctx, cfg.VersesDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = verseRepo.Close() }()

	// Postgres.
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		lg.Info("migrations applied", zap.Strings("versions", applied))
	}

	userRepo := pgrepo.NewUserRepository(pool)
	progressRepo := pgrepo.NewProgressRepository(pool)
	remindersRepo := pgrepo.NewRemindersRepository(pool)

	quizzes, err := newQuizStorage(ctx, cfg, lg)
	if err != nil {
		return err
	}

	// Services.
	userService := service.NewUserService(userRepo, lg)
	surahService := service.NewSurahService(surahRepo)
	generator := service.NewQuizGenerator(verseRepo, nil)
	memorizationService := service.NewMemorizationService(verseRepo, surahRepo, progressRepo, quizzes, generator, lg)
	progressService := service.NewProgressService(progressRepo, surahRepo, lg)
	resetService := service.NewResetService(postgres.NewTransactor(pool))

	reminderStorage := storage.NewReminderStorage()

	handler := telegram.NewHandler(
		bot,
		lg,
		userService,
		surahService,
		memorizationService,
		progressService,
		resetService,
		reminderStorage,
	)

	if cfg.Reminders.Enabled {
		reminderService := service.NewReminderService(
			remindersRepo,
			surahRepo,
			cfg.Reminders.IdleAfter,
			cfg.Reminders.Schedule,
			lg,
		)
		reminderService.SetNotifier(telegram.NewNotifier(bot, userService, reminderStorage, lg))

		go func() {
			if err := reminderService.Start(ctx); err != nil {
				lg.Error("reminder scheduler stopped", zap.Error(err))
			}
		}()
	}

	return handler.Run(ctx)
}

// newQuizStorage keeps pending quizzes in Redis when REDIS_URL is set, in memory otherwise.
func newQuizStorage(ctx context.Context, cfg *config.Config, lg *zap.Logger) (service.QuizStorage, error) {
	if cfg.Cache.URL != "" {
		client, err := storage.NewRedisClient(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, err
		}
		go func() {
			<-ctx.Done()
			_ = client.Close()
		}()

		lg.Info("pending quizzes stored in redis")
		return storage.NewRedisQuizStorage(client, cfg.Cache.QuizTTL), nil
	}

	quizzes := storage.NewQuizStorage(cfg.Cache.QuizTTL)
	go func() {
		ticker := time.NewTicker(quizSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := quizzes.Sweep(); n > 0 {
					lg.Debug("expired quizzes removed", zap.Int("count", n))
				}
			}
		}
	}()

	lg.Info("pending quizzes stored in memory")
	return quizzes, nil
}
