package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	pgrepo "github.com/aliskhannn/hifdh-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/hifdh-bot/internal/repository"
	"github.com/aliskhannn/hifdh-bot/internal/storage"
)

// Step is what the presentation layer renders after every action.
type Step struct {
	Surah   entities.Surah
	State   entities.ProgressionState
	Verse   *entities.Verse        // ayah to memorize, nil once the surah is complete
	Quiz    *entities.QuizQuestion // pending recall test, nil unless awaiting a test
	Outcome entities.Outcome       // what the last action did, empty for plain reads
	Answer  *AnswerFeedback        // set after a test answer
}

// AnswerFeedback describes the answer to a recall test.
type AnswerFeedback struct {
	Passed   bool
	Selected entities.Verse
	Correct  entities.Verse
}

// MemorizationService drives memorization sessions: it loads a state, applies the
// ProgressionEngine, builds quizzes and persists the result.
type MemorizationService struct {
	verses    VerseStore
	surahs    SurahCatalog
	progress  ProgressRepository
	quizzes   QuizStorage
	generator *QuizGenerator
	engine    ProgressionEngine
	locks     *keyedMutex
	logger    *zap.Logger
	now       func() time.Time
}

// NewMemorizationService creates a new MemorizationService.
func NewMemorizationService(
	verses VerseStore,
	surahs SurahCatalog,
	progress ProgressRepository,
	quizzes QuizStorage,
	generator *QuizGenerator,
	logger *zap.Logger,
) *MemorizationService {
	return &MemorizationService{
		verses:    verses,
		surahs:    surahs,
		progress:  progress,
		quizzes:   quizzes,
		generator: generator,
		locks:     newKeyedMutex(),
		logger:    logger,
		now:       time.Now,
	}
}

// Start opens a surah for memorization, creating its state on first use.
func (s *MemorizationService) Start(ctx context.Context, userID int64, surahNumber int) (*Step, error) {
	unlock := s.locks.Lock(userID, surahNumber)
	defer unlock()

	surah, err := s.surah(ctx, surahNumber)
	if err != nil {
		return nil, err
	}

	state, err := s.progress.Get(ctx, userID, surahNumber)
	if err == nil {
		return s.step(ctx, surah, *state, "")
	}
	if !errors.Is(err, pgrepo.ErrProgressNotFound) {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	total, err := s.verses.CountVerses(ctx, surahNumber)
	if err != nil {
		return nil, fmt.Errorf("count verses: %w", err)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: verses of surah %d are not loaded", ErrInsufficientData, surahNumber)
	}
	if total != surah.AyahCount {
		s.logger.Warn("verse store and catalog disagree on ayah count",
			zap.Int("surah", surahNumber),
			zap.Int("store", total),
			zap.Int("catalog", surah.AyahCount),
		)
	}

	fresh := entities.NewProgressionState(userID, surahNumber, total, s.now())
	if err := s.save(ctx, &fresh); err != nil {
		return nil, err
	}

	s.logger.Info("memorization started",
		zap.Int64("user_id", userID),
		zap.Int("surah", surahNumber),
		zap.Int("total_ayahs", total),
	)

	return s.step(ctx, surah, fresh, "")
}

// Current returns the session as it is, regenerating a lost quiz if a test is pending.
func (s *MemorizationService) Current(ctx context.Context, userID int64, surahNumber int) (*Step, error) {
	unlock := s.locks.Lock(userID, surahNumber)
	defer unlock()

	surah, state, err := s.load(ctx, userID, surahNumber)
	if err != nil {
		return nil, err
	}

	return s.step(ctx, surah, *state, "")
}

// Repeat counts one repetition of the current ayah.
func (s *MemorizationService) Repeat(ctx context.Context, userID int64, surahNumber int) (*Step, error) {
	unlock := s.locks.Lock(userID, surahNumber)
	defer unlock()

	surah, state, err := s.load(ctx, userID, surahNumber)
	if err != nil {
		return nil, err
	}

	next, err := s.engine.RecordRepetition(*state)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, &next); err != nil {
		return nil, err
	}

	return s.step(ctx, surah, next, entities.OutcomeRepeated)
}

// Advance moves to the next ayah, or opens the recall test closing the block.
func (s *MemorizationService) Advance(ctx context.Context, userID int64, surahNumber int) (*Step, error) {
	unlock := s.locks.Lock(userID, surahNumber)
	defer unlock()

	surah, state, err := s.load(ctx, userID, surahNumber)
	if err != nil {
		return nil, err
	}

	next, outcome, err := s.engine.Advance(*state)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, &next); err != nil {
		return nil, err
	}

	if outcome == entities.OutcomeTestDue {
		s.logger.Info("recall test due",
			zap.Int64("user_id", userID),
			zap.Int("surah", surahNumber),
			zap.Int("ayah", next.CurrentAyah),
		)
	}

	return s.step(ctx, surah, next, outcome)
}

// Answer resolves the pending recall test with the selected option.
func (s *MemorizationService) Answer(ctx context.Context, userID int64, surahNumber int, quizID string, option int) (*Step, error) {
	unlock := s.locks.Lock(userID, surahNumber)
	defer unlock()

	surah, state, err := s.load(ctx, userID, surahNumber)
	if err != nil {
		return nil, err
	}
	if state.Stage != entities.StageAwaitingTest {
		return nil, fmt.Errorf("%w: no test pending", ErrInvalidState)
	}

	q, err := s.quizzes.Get(ctx, userID, surahNumber)
	if err != nil {
		if errors.Is(err, storage.ErrQuizNotFound) {
			return nil, fmt.Errorf("%w: quiz %s expired", ErrQuizMismatch, quizID)
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if q.ID != quizID {
		return nil, fmt.Errorf("%w: got %s, pending %s", ErrQuizMismatch, quizID, q.ID)
	}
	if option < 0 || option >= len(q.Options) {
		return nil, fmt.Errorf("%w: option %d of %d", ErrOutOfRange, option, len(q.Options))
	}

	passed := q.IsCorrect(option)
	testedAyah := state.CurrentAyah

	next, outcome, err := s.engine.RecordTestResult(*state, passed)
	if err != nil {
		return nil, err
	}
	if next.IsComplete() && next.CompletedAt == nil {
		now := s.now()
		next.CompletedAt = &now
	}

	next.UpdatedAt = s.now()
	attempt := &entities.TestAttempt{
		UserID:     userID,
		Surah:      surahNumber,
		Ayah:       testedAyah,
		Passed:     passed,
		AnsweredAt: next.UpdatedAt,
	}
	if err := s.progress.RecordResult(ctx, &next, attempt); err != nil {
		return nil, fmt.Errorf("record test result: %w", err)
	}

	if err := s.quizzes.Delete(ctx, userID, surahNumber); err != nil {
		s.logger.Error("failed to delete quiz", zap.Int64("user_id", userID), zap.Error(err))
	}

	s.logger.Info("recall test answered",
		zap.Int64("user_id", userID),
		zap.Int("surah", surahNumber),
		zap.Int("ayah", testedAyah),
		zap.Bool("passed", passed),
		zap.String("outcome", string(outcome)),
	)

	step, err := s.step(ctx, surah, next, outcome)
	if err != nil {
		return nil, err
	}
	step.Answer = &AnswerFeedback{
		Passed:   passed,
		Selected: q.Options[option],
		Correct:  q.Correct(),
	}
	return step, nil
}

// Reset discards the progress of a surah.
func (s *MemorizationService) Reset(ctx context.Context, userID int64, surahNumber int) error {
	unlock := s.locks.Lock(userID, surahNumber)
	defer unlock()

	if err := s.quizzes.Delete(ctx, userID, surahNumber); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if err := s.progress.Delete(ctx, userID, surahNumber); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}

	s.logger.Info("memorization reset", zap.Int64("user_id", userID), zap.Int("surah", surahNumber))
	return nil
}

func (s *MemorizationService) surah(ctx context.Context, number int) (entities.Surah, error) {
	surah, err := s.surahs.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidNumber) || errors.Is(err, repository.ErrSurahNotFound) {
			return entities.Surah{}, fmt.Errorf("%w: surah %d", ErrOutOfRange, number)
		}
		return entities.Surah{}, fmt.Errorf("get surah: %w", err)
	}
	return *surah, nil
}

func (s *MemorizationService) load(ctx context.Context, userID int64, surahNumber int) (entities.Surah, *entities.ProgressionState, error) {
	surah, err := s.surah(ctx, surahNumber)
	if err != nil {
		return entities.Surah{}, nil, err
	}

	state, err := s.progress.Get(ctx, userID, surahNumber)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProgressNotFound) {
			return entities.Surah{}, nil, fmt.Errorf("%w: surah %d not started", ErrInvalidState, surahNumber)
		}
		return entities.Surah{}, nil, fmt.Errorf("get progress: %w", err)
	}

	return surah, state, nil
}

func (s *MemorizationService) save(ctx context.Context, state *entities.ProgressionState) error {
	state.UpdatedAt = s.now()
	if err := s.progress.Upsert(ctx, state); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *MemorizationService) step(ctx context.Context, surah entities.Surah, state entities.ProgressionState, outcome entities.Outcome) (*Step, error) {
	step := &Step{Surah: surah, State: state, Outcome: outcome}

	if state.IsComplete() {
		return step, nil
	}

	verse, err := s.verses.GetVerse(ctx, state.Surah, state.CurrentAyah)
	if err != nil {
		if errors.Is(err, repository.ErrVerseNotFound) {
			return nil, fmt.Errorf("%w: ayah %d:%d not found", ErrInsufficientData, state.Surah, state.CurrentAyah)
		}
		return nil, fmt.Errorf("get verse: %w", err)
	}
	step.Verse = verse

	if state.Stage == entities.StageAwaitingTest {
		q, err := s.pendingQuiz(ctx, state)
		if err != nil {
			return nil, err
		}
		step.Quiz = q
	}

	return step, nil
}

// pendingQuiz returns the stored quiz of the session or builds and stores a new one.
func (s *MemorizationService) pendingQuiz(ctx context.Context, state entities.ProgressionState) (*entities.QuizQuestion, error) {
	q, err := s.quizzes.Get(ctx, state.UserID, state.Surah)
	if err == nil {
		return q, nil
	}
	if !errors.Is(err, storage.ErrQuizNotFound) {
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	q, err = s.buildQuiz(ctx, state)
	if err != nil {
		return nil, err
	}

	if err := s.quizzes.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("save quiz: %w", err)
	}
	return q, nil
}

// buildQuiz asks what follows the tested ayah. The last ayah of a surah has no successor,
// so its test, and any test that cannot find distractors, falls back to earlier ayahs of the block.
func (s *MemorizationService) buildQuiz(ctx context.Context, state entities.ProgressionState) (*entities.QuizQuestion, error) {
	anchor := state.CurrentAyah
	if anchor == state.TotalAyahs {
		anchor--
	}

	var lastErr error
	for a := anchor; a >= 1 && a > anchor-entities.CheckpointSize; a-- {
		probe := state
		probe.CurrentAyah = a

		q, err := s.generator.Build(ctx, probe)
		if err == nil {
			return q, nil
		}
		if !errors.Is(err, ErrInsufficientData) {
			return nil, err
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: surah %d is too short for a test", ErrInsufficientData, state.Surah)
	}
	return nil, lastErr
}

// Plan returns the memorization timeline of a surah. The state is nil if the surah was never started.
func (s *MemorizationService) Plan(ctx context.Context, userID int64, surahNumber int) (entities.Surah, []entities.Task, *entities.ProgressionState, error) {
	surah, err := s.surah(ctx, surahNumber)
	if err != nil {
		return entities.Surah{}, nil, nil, err
	}

	state, err := s.progress.Get(ctx, userID, surahNumber)
	if err != nil {
		if !errors.Is(err, pgrepo.ErrProgressNotFound) {
			return entities.Surah{}, nil, nil, fmt.Errorf("get progress: %w", err)
		}
		state = nil
	}

	return surah, BuildPlan(surah, state), state, nil
}
