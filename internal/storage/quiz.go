package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

var ErrQuizNotFound = errors.New("quiz not found")

type quizKey struct {
	userID int64
	surah  int
}

type quizEntry struct {
	quiz      entities.QuizQuestion
	expiresAt time.Time
}

// QuizStorage provides in-memory storage for the pending quiz of each (user, surah) session.
type QuizStorage struct {
	mu      sync.RWMutex
	quizzes map[quizKey]quizEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewQuizStorage creates a new QuizStorage. A zero ttl keeps quizzes until they are deleted.
func NewQuizStorage(ttl time.Duration) *QuizStorage {
	return &QuizStorage{
		quizzes: make(map[quizKey]quizEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Save stores q, replacing the previous quiz of the session.
func (s *QuizStorage) Save(_ context.Context, q *entities.QuizQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := quizEntry{quiz: cloneQuiz(q)}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.quizzes[quizKey{userID: q.UserID, surah: q.Surah}] = entry
	return nil
}

// Get returns the pending quiz of the session or ErrQuizNotFound.
func (s *QuizStorage) Get(_ context.Context, userID int64, surah int) (*entities.QuizQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.quizzes[quizKey{userID: userID, surah: surah}]
	if !ok || (!entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt)) {
		return nil, ErrQuizNotFound
	}

	q := cloneQuiz(&entry.quiz)
	return &q, nil
}

// cloneQuiz copies q so callers never share its options with the stored entry.
func cloneQuiz(q *entities.QuizQuestion) entities.QuizQuestion {
	c := *q
	c.Options = append([]entities.Verse(nil), q.Options...)
	return c
}

// Delete removes the quiz of the session. Deleting a missing quiz is not an error.
func (s *QuizStorage) Delete(_ context.Context, userID int64, surah int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quizzes, quizKey{userID: userID, surah: surah})
	return nil
}

// Sweep drops expired quizzes and returns how many were removed.
func (s *QuizStorage) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.quizzes {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.quizzes, k)
			removed++
		}
	}
	return removed
}
