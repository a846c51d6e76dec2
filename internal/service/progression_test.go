package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

func state(current, reps, checkpoint, total int, stage entities.Stage) entities.ProgressionState {
	return entities.ProgressionState{
		UserID:          1,
		Surah:           2,
		CurrentAyah:     current,
		RepetitionCount: reps,
		LastCheckpoint:  checkpoint,
		TotalAyahs:      total,
		Stage:           stage,
	}
}

func TestRecordRepetition_NeverExceedsMax(t *testing.T) {
	var e ProgressionEngine
	s := entities.NewProgressionState(1, 2, 26, time.Now())

	for i := 0; i < 10; i++ {
		next, err := e.RecordRepetition(s)
		if i < entities.MaxRepetitions {
			require.NoError(t, err)
			assert.Equal(t, i+1, next.RepetitionCount)
		} else {
			require.ErrorIs(t, err, ErrInvalidState)
			assert.Equal(t, s, next)
		}
		s = next
		assert.LessOrEqual(t, s.RepetitionCount, entities.MaxRepetitions)
	}
}

func TestRecordRepetition_RejectsWhileAwaitingTest(t *testing.T) {
	var e ProgressionEngine
	s := state(5, 7, 0, 26, entities.StageAwaitingTest)

	next, err := e.RecordRepetition(s)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, s, next)
}

func TestIsTestDue(t *testing.T) {
	var e ProgressionEngine
	tests := []struct {
		current int
		total   int
		want    bool
	}{
		{current: 1, total: 26, want: false},
		{current: 4, total: 26, want: false},
		{current: 5, total: 26, want: true},
		{current: 6, total: 26, want: false},
		{current: 10, total: 26, want: true},
		{current: 26, total: 26, want: true},
		{current: 3, total: 3, want: true},
		{current: 2, total: 3, want: false},
	}

	for _, tt := range tests {
		got := e.IsTestDue(state(tt.current, 0, 0, tt.total, entities.StageMemorizing))
		assert.Equal(t, tt.want, got, "ayah %d of %d", tt.current, tt.total)
	}
}

func TestAdvance(t *testing.T) {
	var e ProgressionEngine

	t.Run("requires all repetitions", func(t *testing.T) {
		s := state(3, 6, 0, 26, entities.StageMemorizing)
		next, _, err := e.Advance(s)
		require.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, s, next)
	})

	t.Run("moves to next ayah", func(t *testing.T) {
		next, outcome, err := e.Advance(state(3, 7, 0, 26, entities.StageMemorizing))
		require.NoError(t, err)
		assert.Equal(t, entities.OutcomeAdvanced, outcome)
		assert.Equal(t, 4, next.CurrentAyah)
		assert.Equal(t, 0, next.RepetitionCount)
		assert.Equal(t, entities.StageMemorizing, next.Stage)
	})

	t.Run("opens test at block end", func(t *testing.T) {
		next, outcome, err := e.Advance(state(5, 7, 0, 26, entities.StageMemorizing))
		require.NoError(t, err)
		assert.Equal(t, entities.OutcomeTestDue, outcome)
		assert.Equal(t, 5, next.CurrentAyah)
		assert.Equal(t, entities.StageAwaitingTest, next.Stage)
	})

	t.Run("opens test at last ayah", func(t *testing.T) {
		next, outcome, err := e.Advance(state(26, 7, 25, 26, entities.StageMemorizing))
		require.NoError(t, err)
		assert.Equal(t, entities.OutcomeTestDue, outcome)
		assert.Equal(t, entities.StageAwaitingTest, next.Stage)
	})

	t.Run("rejects while awaiting test", func(t *testing.T) {
		_, _, err := e.Advance(state(5, 7, 0, 26, entities.StageAwaitingTest))
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("rejects out of range state", func(t *testing.T) {
		_, _, err := e.Advance(state(27, 7, 0, 26, entities.StageMemorizing))
		require.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestRecordTestResult(t *testing.T) {
	var e ProgressionEngine

	t.Run("pass records checkpoint and moves on", func(t *testing.T) {
		next, outcome, err := e.RecordTestResult(state(10, 7, 5, 26, entities.StageAwaitingTest), true)
		require.NoError(t, err)
		assert.Equal(t, entities.OutcomePassed, outcome)
		assert.Equal(t, 11, next.CurrentAyah)
		assert.Equal(t, 10, next.LastCheckpoint)
		assert.Equal(t, 0, next.RepetitionCount)
		assert.Equal(t, entities.StageMemorizing, next.Stage)
	})

	t.Run("fail rolls back to block start", func(t *testing.T) {
		next, outcome, err := e.RecordTestResult(state(20, 7, 15, 26, entities.StageAwaitingTest), false)
		require.NoError(t, err)
		assert.Equal(t, entities.OutcomeRolledBack, outcome)
		assert.Equal(t, 16, next.CurrentAyah)
		assert.Equal(t, 15, next.LastCheckpoint)
		assert.Equal(t, 0, next.RepetitionCount)
		assert.Equal(t, entities.StageMemorizing, next.Stage)
	})

	t.Run("fail in final partial block", func(t *testing.T) {
		next, _, err := e.RecordTestResult(state(26, 7, 25, 26, entities.StageAwaitingTest), false)
		require.NoError(t, err)
		assert.Equal(t, 26, next.CurrentAyah)

		next, _, err = e.RecordTestResult(state(7, 7, 5, 7, entities.StageAwaitingTest), false)
		require.NoError(t, err)
		assert.Equal(t, 6, next.CurrentAyah)
	})

	t.Run("fail in first block of a short surah", func(t *testing.T) {
		next, _, err := e.RecordTestResult(state(3, 7, 0, 3, entities.StageAwaitingTest), false)
		require.NoError(t, err)
		assert.Equal(t, 1, next.CurrentAyah)
	})

	t.Run("pass at last ayah completes", func(t *testing.T) {
		next, outcome, err := e.RecordTestResult(state(7, 7, 5, 7, entities.StageAwaitingTest), true)
		require.NoError(t, err)
		assert.Equal(t, entities.OutcomeComplete, outcome)
		assert.True(t, next.IsComplete())
		assert.Equal(t, 7, next.MemorizedAyahs())
	})

	t.Run("second result is rejected", func(t *testing.T) {
		next, _, err := e.RecordTestResult(state(5, 7, 0, 26, entities.StageAwaitingTest), true)
		require.NoError(t, err)

		again, _, err := e.RecordTestResult(next, true)
		require.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, next, again)
	})

	t.Run("rejects without pending test", func(t *testing.T) {
		_, _, err := e.RecordTestResult(state(5, 7, 0, 26, entities.StageMemorizing), true)
		require.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestEngine_RejectsCorruptState(t *testing.T) {
	var e ProgressionEngine
	tests := []struct {
		name  string
		state entities.ProgressionState
		want  error
	}{
		{"negative repetitions", state(1, -1, 0, 7, entities.StageMemorizing), ErrInvalidState},
		{"too many repetitions", state(1, 8, 0, 7, entities.StageMemorizing), ErrInvalidState},
		{"checkpoint not a block end", state(4, 0, 3, 7, entities.StageMemorizing), ErrInvalidState},
		{"checkpoint ahead of ayah", state(2, 0, 5, 7, entities.StageMemorizing), ErrInvalidState},
		{"unknown stage", state(1, 0, 0, 7, entities.Stage("paused")), ErrInvalidState},
		{"ayah zero", state(0, 0, 0, 7, entities.StageMemorizing), ErrOutOfRange},
		{"empty surah", state(1, 0, 0, 0, entities.StageMemorizing), ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.RecordRepetition(tt.state)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

// A full walk through a 7-ayah surah, failing the first attempt at every test.
func TestEngine_WalkThroughSurah(t *testing.T) {
	var e ProgressionEngine
	s := entities.NewProgressionState(1, 1, 7, time.Now())
	failed := map[int]bool{}

	for steps := 0; !s.IsComplete(); steps++ {
		require.Less(t, steps, 1000, "walk does not terminate")

		switch s.Stage {
		case entities.StageMemorizing:
			var err error
			for s.RepetitionCount < entities.MaxRepetitions {
				s, err = e.RecordRepetition(s)
				require.NoError(t, err)
			}
			s, _, err = e.Advance(s)
			require.NoError(t, err)
		case entities.StageAwaitingTest:
			pass := failed[s.CurrentAyah]
			failed[s.CurrentAyah] = true

			var err error
			s, _, err = e.RecordTestResult(s, pass)
			require.NoError(t, err)
		}

		assert.LessOrEqual(t, s.LastCheckpoint, s.CurrentAyah)
		assert.Zero(t, s.LastCheckpoint%entities.CheckpointSize)
	}

	assert.Equal(t, 7, s.CurrentAyah)
	assert.Equal(t, 7, s.MemorizedAyahs())
	assert.Len(t, failed, 2)
}
