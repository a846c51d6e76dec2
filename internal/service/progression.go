package service

import (
	"fmt"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

// ProgressionEngine applies the memorization rules to a ProgressionState.
//
// Every method takes the state by value and returns the new state, so the caller's copy is
// never mutated. On error the returned state equals the input.
type ProgressionEngine struct{}

// RecordRepetition counts one more repetition of the current ayah.
// It fails with ErrInvalidState once MaxRepetitions is reached: the caller must Advance.
func (e ProgressionEngine) RecordRepetition(s entities.ProgressionState) (entities.ProgressionState, error) {
	if err := e.validate(s); err != nil {
		return s, err
	}
	if s.Stage != entities.StageMemorizing {
		return s, fmt.Errorf("%w: cannot repeat while %s", ErrInvalidState, s.Stage)
	}
	if s.RepetitionCount >= entities.MaxRepetitions {
		return s, fmt.Errorf("%w: %d repetitions done, advance first", ErrInvalidState, s.RepetitionCount)
	}

	s.RepetitionCount++
	return s, nil
}

// IsTestDue reports whether the current ayah closes a block and must be tested.
func (e ProgressionEngine) IsTestDue(s entities.ProgressionState) bool {
	return s.CurrentAyah%entities.CheckpointSize == 0 || s.CurrentAyah == s.TotalAyahs
}

// Advance moves past the current ayah once all repetitions are done.
// When a test is due the state switches to AwaitingTest instead of moving on.
func (e ProgressionEngine) Advance(s entities.ProgressionState) (entities.ProgressionState, entities.Outcome, error) {
	if err := e.validate(s); err != nil {
		return s, "", err
	}
	if s.Stage != entities.StageMemorizing {
		return s, "", fmt.Errorf("%w: cannot advance while %s", ErrInvalidState, s.Stage)
	}
	if s.RepetitionCount != entities.MaxRepetitions {
		return s, "", fmt.Errorf("%w: %d of %d repetitions done", ErrInvalidState, s.RepetitionCount, entities.MaxRepetitions)
	}

	if e.IsTestDue(s) {
		s.Stage = entities.StageAwaitingTest
		return s, entities.OutcomeTestDue, nil
	}

	if s.CurrentAyah >= s.TotalAyahs {
		return s, "", fmt.Errorf("%w: ayah %d is the last of %d", ErrOutOfRange, s.CurrentAyah, s.TotalAyahs)
	}

	s.CurrentAyah++
	s.RepetitionCount = 0
	return s, entities.OutcomeAdvanced, nil
}

// RecordTestResult applies the outcome of the pending recall test.
//
// A pass records the checkpoint and moves to the next ayah, or completes the surah at its
// last ayah. A failure rolls back to the first ayah of the tested block.
func (e ProgressionEngine) RecordTestResult(s entities.ProgressionState, passed bool) (entities.ProgressionState, entities.Outcome, error) {
	if err := e.validate(s); err != nil {
		return s, "", err
	}
	if s.Stage != entities.StageAwaitingTest {
		return s, "", fmt.Errorf("%w: no test pending while %s", ErrInvalidState, s.Stage)
	}

	s.RepetitionCount = 0

	if !passed {
		s.CurrentAyah = e.RollbackAyah(s)
		s.Stage = entities.StageMemorizing
		return s, entities.OutcomeRolledBack, nil
	}

	s.LastCheckpoint = s.CurrentAyah / entities.CheckpointSize * entities.CheckpointSize

	if s.CurrentAyah == s.TotalAyahs {
		s.Stage = entities.StageComplete
		return s, entities.OutcomeComplete, nil
	}

	s.CurrentAyah++
	s.Stage = entities.StageMemorizing
	return s, entities.OutcomePassed, nil
}

// RollbackAyah returns the first ayah of the block under test.
// The final block of a surah may hold fewer than CheckpointSize ayahs.
func (e ProgressionEngine) RollbackAyah(s entities.ProgressionState) int {
	size := entities.CheckpointSize
	if s.CurrentAyah == s.TotalAyahs && s.TotalAyahs%size != 0 {
		return (s.TotalAyahs-1)/size*size + 1
	}
	return max((s.CurrentAyah-1)/size*size+1, 1)
}

// validate rejects states that no sequence of operations could have produced.
func (e ProgressionEngine) validate(s entities.ProgressionState) error {
	if s.TotalAyahs < 1 || s.CurrentAyah < 1 || s.CurrentAyah > s.TotalAyahs {
		return fmt.Errorf("%w: ayah %d of %d", ErrOutOfRange, s.CurrentAyah, s.TotalAyahs)
	}
	if s.RepetitionCount < 0 || s.RepetitionCount > entities.MaxRepetitions {
		return fmt.Errorf("%w: repetition count %d", ErrInvalidState, s.RepetitionCount)
	}
	if s.LastCheckpoint < 0 || s.LastCheckpoint%entities.CheckpointSize != 0 || s.LastCheckpoint > s.CurrentAyah {
		return fmt.Errorf("%w: checkpoint %d at ayah %d", ErrInvalidState, s.LastCheckpoint, s.CurrentAyah)
	}
	switch s.Stage {
	case entities.StageMemorizing, entities.StageAwaitingTest, entities.StageComplete:
	default:
		return fmt.Errorf("%w: unknown stage %q", ErrInvalidState, s.Stage)
	}
	return nil
}
