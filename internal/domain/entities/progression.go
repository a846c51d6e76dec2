package entities

import "time"

const (
	// MaxRepetitions is the number of repetitions that unlocks advancement.
	MaxRepetitions = 7
	// CheckpointSize is the number of ayahs in a block closed by a recall test.
	CheckpointSize = 5
)

// Stage is the memorization stage of a surah.
type Stage string

const (
	StageMemorizing   Stage = "memorizing"    // repeating the current ayah
	StageAwaitingTest Stage = "awaiting_test" // a recall test must be answered before moving on
	StageComplete     Stage = "complete"      // the whole surah has been memorized
)

// Outcome describes what a transition did to the state.
type Outcome string

const (
	OutcomeRepeated   Outcome = "repeated"
	OutcomeAdvanced   Outcome = "advanced"
	OutcomeTestDue    Outcome = "test_due"
	OutcomePassed     Outcome = "passed"
	OutcomeRolledBack Outcome = "rolled_back"
	OutcomeComplete   Outcome = "complete"
)

// ProgressionState tracks how far a user got in memorizing a single surah.
type ProgressionState struct {
	UserID          int64
	Surah           int
	CurrentAyah     int   // ayah being memorized, 1..TotalAyahs
	RepetitionCount int   // 0..MaxRepetitions, reset on advance
	LastCheckpoint  int   // last passed checkpoint, 0 or a multiple of CheckpointSize
	TotalAyahs      int   // number of ayahs in the surah
	Stage           Stage // current stage

	StartedAt   time.Time
	UpdatedAt   time.Time
	RemindedAt  *time.Time // last idle reminder, nil if never reminded
	CompletedAt *time.Time // set once the surah is complete
}

// NewProgressionState creates the initial Memorizing(1, 0) state for a surah.
func NewProgressionState(userID int64, surah, totalAyahs int, now time.Time) ProgressionState {
	return ProgressionState{
		UserID:      userID,
		Surah:       surah,
		CurrentAyah: 1,
		TotalAyahs:  totalAyahs,
		Stage:       StageMemorizing,
		StartedAt:   now,
		UpdatedAt:   now,
	}
}

// IsComplete reports whether the surah has been fully memorized.
func (s ProgressionState) IsComplete() bool {
	return s.Stage == StageComplete
}

// CanAdvance reports whether enough repetitions were made to move on.
func (s ProgressionState) CanAdvance() bool {
	return s.Stage == StageMemorizing && s.RepetitionCount >= MaxRepetitions
}

// MemorizedAyahs returns the number of ayahs confirmed by a passed test.
func (s ProgressionState) MemorizedAyahs() int {
	if s.IsComplete() {
		return s.TotalAyahs
	}
	return s.LastCheckpoint
}

// Percentage returns memorized ayahs as a percentage of the surah.
func (s ProgressionState) Percentage() float64 {
	if s.TotalAyahs == 0 {
		return 0
	}
	return float64(s.MemorizedAyahs()) / float64(s.TotalAyahs) * 100
}
