package service

import "errors"

var (
	// ErrInvalidState is returned when an operation is not allowed in the current stage.
	ErrInvalidState = errors.New("invalid state")
	// ErrOutOfRange is returned for ayah, surah or option indices outside their bounds.
	ErrOutOfRange = errors.New("out of range")
	// ErrInsufficientData is returned when the verse store cannot supply enough verses.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrQuizMismatch is returned when an answer refers to a quiz that is no longer pending.
	ErrQuizMismatch = errors.New("quiz is not pending")
)
