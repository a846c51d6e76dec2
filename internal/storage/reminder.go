package storage

import (
	"sync"
	"time"
)

// ReminderMessage is a reminder already delivered to a chat.
type ReminderMessage struct {
	ChatID    int64
	MessageID int
	Surah     int
	SentAt    time.Time
}

// ReminderStorage remembers the last reminder sent to each chat,
// so a new reminder can replace the previous one instead of piling up.
type ReminderStorage struct {
	mu       sync.Mutex
	messages map[int64]ReminderMessage
	now      func() time.Time
}

func NewReminderStorage() *ReminderStorage {
	return &ReminderStorage{
		messages: make(map[int64]ReminderMessage),
		now:      time.Now,
	}
}

// Replace records a sent reminder and returns the one it replaces, if any.
func (s *ReminderStorage) Replace(chatID int64, messageID, surah int) (prev ReminderMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[chatID]
	s.messages[chatID] = ReminderMessage{
		ChatID:    chatID,
		MessageID: messageID,
		Surah:     surah,
		SentAt:    s.now(),
	}
	return prev, hadPrev
}

// Take removes and returns the reminder of a chat.
func (s *ReminderStorage) Take(chatID int64) (ReminderMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[chatID]
	delete(s.messages, chatID)
	return msg, ok
}
