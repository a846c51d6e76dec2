package entities

import "time"

// QuizQuestion is a multiple choice recall test: which verse follows the prompt.
type QuizQuestion struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Surah        int       `json:"surah"`
	PromptVerse  Verse     `json:"prompt_verse"`
	Options      []Verse   `json:"options"`       // 2..4 options, no duplicate text
	CorrectIndex int       `json:"correct_index"` // position of the correct verse in Options
	CreatedAt    time.Time `json:"created_at"`
}

// Correct returns the verse that correctly follows the prompt.
func (q *QuizQuestion) Correct() Verse {
	return q.Options[q.CorrectIndex]
}

// IsCorrect reports whether the option at index answers the question.
func (q *QuizQuestion) IsCorrect(index int) bool {
	return index == q.CorrectIndex
}

// TestAttempt is a recorded answer to a recall test.
type TestAttempt struct {
	UserID     int64
	Surah      int
	Ayah       int // ayah at which the test was due
	Passed     bool
	AnsweredAt time.Time
}

// AttemptStats aggregates recorded test attempts of a user.
type AttemptStats struct {
	Total  int
	Passed int
}

// Accuracy returns passed attempts as a percentage.
func (s AttemptStats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total) * 100
}
