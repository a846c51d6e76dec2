package entities

import "time"

// IdleSession is an unfinished surah that has not been touched for a while.
type IdleSession struct {
	UserID      int64
	ChatID      int64
	Surah       int
	CurrentAyah int
	TotalAyahs  int
	Stage       Stage
	UpdatedAt   time.Time
}

// ReminderPayload is what gets rendered in a reminder message.
type ReminderPayload struct {
	Surah        Surah
	CurrentAyah  int
	AwaitingTest bool
}
