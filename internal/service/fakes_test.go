package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	pgrepo "github.com/aliskhannn/hifdh-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/hifdh-bot/internal/repository"
)

const catalogPath = "../../assets/data/surahs.json"

func testCatalog(t *testing.T) *repository.SurahRepository {
	t.Helper()
	catalog, err := repository.NewSurahRepository(catalogPath)
	require.NoError(t, err)
	return catalog
}

type progressKey struct {
	userID int64
	surah  int
}

type fakeProgressRepo struct {
	mu        sync.Mutex
	states    map[progressKey]entities.ProgressionState
	attempts  []entities.TestAttempt
	resultErr error // returned by RecordResult, nothing is written then
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{states: make(map[progressKey]entities.ProgressionState)}
}

func (r *fakeProgressRepo) Get(_ context.Context, userID int64, surah int) (*entities.ProgressionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[progressKey{userID, surah}]
	if !ok {
		return nil, pgrepo.ErrProgressNotFound
	}
	return &s, nil
}

func (r *fakeProgressRepo) Upsert(_ context.Context, s *entities.ProgressionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[progressKey{s.UserID, s.Surah}] = *s
	return nil
}

func (r *fakeProgressRepo) Delete(_ context.Context, userID int64, surah int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, progressKey{userID, surah})
	return nil
}

func (r *fakeProgressRepo) ListByUser(_ context.Context, userID int64) ([]*entities.ProgressionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ProgressionState
	for k, s := range r.states {
		if k.userID == userID {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeProgressRepo) SaveAttempt(_ context.Context, a *entities.TestAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, *a)
	return nil
}

func (r *fakeProgressRepo) RecordResult(_ context.Context, s *entities.ProgressionState, a *entities.TestAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resultErr != nil {
		return r.resultErr
	}
	r.states[progressKey{s.UserID, s.Surah}] = *s
	r.attempts = append(r.attempts, *a)
	return nil
}

func (r *fakeProgressRepo) GetAttemptStats(_ context.Context, userID int64) (*entities.AttemptStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stats entities.AttemptStats
	for _, a := range r.attempts {
		if a.UserID != userID {
			continue
		}
		stats.Total++
		if a.Passed {
			stats.Passed++
		}
	}
	return &stats, nil
}

type fakeReminderRepo struct {
	mu       sync.Mutex
	sessions []*entities.IdleSession
	reminded map[progressKey]time.Time
}

func (r *fakeReminderRepo) ListIdle(_ context.Context, idleSince time.Time, limit, offset int) ([]*entities.IdleSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var idle []*entities.IdleSession
	for _, s := range r.sessions {
		if s.Stage == entities.StageComplete || s.UpdatedAt.After(idleSince) {
			continue
		}
		if at, ok := r.reminded[progressKey{s.UserID, s.Surah}]; ok && !at.Before(s.UpdatedAt) {
			continue
		}
		idle = append(idle, s)
	}
	if offset >= len(idle) {
		return nil, nil
	}
	return idle[offset:min(offset+limit, len(idle))], nil
}

func (r *fakeReminderRepo) MarkReminded(_ context.Context, userID int64, surah int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reminded == nil {
		r.reminded = make(map[progressKey]time.Time)
	}
	r.reminded[progressKey{userID, surah}] = at
	return nil
}

type sentReminder struct {
	chatID  int64
	payload entities.ReminderPayload
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []sentReminder
	failOn map[int64]error
}

func (n *fakeNotifier) SendReminder(chatID int64, payload entities.ReminderPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.failOn[chatID]; err != nil {
		return err
	}
	n.sent = append(n.sent, sentReminder{chatID: chatID, payload: payload})
	return nil
}

type fakeUserRepo struct {
	users map[int64]*entities.User
}

func (r *fakeUserRepo) Save(_ context.Context, u *entities.User) (bool, error) {
	if r.users == nil {
		r.users = make(map[int64]*entities.User)
	}
	_, exists := r.users[u.ID]
	r.users[u.ID] = u
	return !exists, nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, userID int64) error {
	u, ok := r.users[userID]
	if !ok {
		return pgrepo.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}
