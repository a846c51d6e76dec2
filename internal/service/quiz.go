package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	"github.com/aliskhannn/hifdh-bot/internal/repository"
)

// distractorOffsets are tried in order, relative to the anchor ayah.
var distractorOffsets = []int{-2, 2, 3}

const maxDistractors = 3

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// QuizGenerator builds "which ayah comes next" multiple choice questions.
type QuizGenerator struct {
	verses VerseStore

	mu  sync.Mutex // guards rng
	rng Shuffler

	newID func() string
	now   func() time.Time
}

// NewQuizGenerator creates a generator. A nil rng falls back to a time-seeded source.
func NewQuizGenerator(verses VerseStore, rng Shuffler) *QuizGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuizGenerator{
		verses: verses,
		rng:    rng,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// Build creates the test for the current ayah of state: the correct option is the ayah after it.
func (g *QuizGenerator) Build(ctx context.Context, state entities.ProgressionState) (*entities.QuizQuestion, error) {
	q, err := g.BuildAt(ctx, state.Surah, state.CurrentAyah)
	if err != nil {
		return nil, err
	}
	q.UserID = state.UserID
	return q, nil
}

// BuildAt creates a question whose prompt is the anchor ayah and whose answer is anchor+1.
func (g *QuizGenerator) BuildAt(ctx context.Context, surah, anchor int) (*entities.QuizQuestion, error) {
	prompt, err := g.lookup(ctx, surah, anchor)
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		return nil, fmt.Errorf("%w: prompt ayah %d:%d not found", ErrInsufficientData, surah, anchor)
	}

	correct, err := g.lookup(ctx, surah, anchor+1)
	if err != nil {
		return nil, err
	}
	if correct == nil {
		return nil, fmt.Errorf("%w: no ayah follows %d:%d", ErrInsufficientData, surah, anchor)
	}

	options := make([]entities.Verse, 0, 1+maxDistractors)
	options = append(options, *correct)
	seen := map[string]struct{}{correct.Text: {}}

	for _, offset := range distractorOffsets {
		if len(options)-1 >= maxDistractors {
			break
		}

		d, err := g.lookup(ctx, surah, anchor+offset)
		if err != nil {
			return nil, err
		}
		if d == nil {
			continue
		}
		if _, dup := seen[d.Text]; dup {
			continue
		}

		seen[d.Text] = struct{}{}
		options = append(options, *d)
	}

	if len(options) < 2 {
		return nil, fmt.Errorf("%w: no distractors for ayah %d:%d", ErrInsufficientData, surah, anchor+1)
	}

	g.shuffle(options)

	correctIndex := 0
	for i, opt := range options {
		if opt.Ayah == correct.Ayah {
			correctIndex = i
			break
		}
	}

	return &entities.QuizQuestion{
		ID:           g.newID(),
		Surah:        surah,
		PromptVerse:  *prompt,
		Options:      options,
		CorrectIndex: correctIndex,
		CreatedAt:    g.now(),
	}, nil
}

// lookup returns nil without error when the ayah does not exist.
func (g *QuizGenerator) lookup(ctx context.Context, surah, ayah int) (*entities.Verse, error) {
	if ayah < 1 {
		return nil, nil
	}

	v, err := g.verses.GetVerse(ctx, surah, ayah)
	if err != nil {
		if errors.Is(err, repository.ErrVerseNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get verse %d:%d: %w", surah, ayah, err)
	}

	return v, nil
}

func (g *QuizGenerator) shuffle(options []entities.Verse) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
}
