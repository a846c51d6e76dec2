package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderStorageReplaceAndTake(t *testing.T) {
	s := NewReminderStorage()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, had := s.Replace(1, 10, 112)
	assert.False(t, had)

	prev, had := s.Replace(1, 11, 2)
	require.True(t, had)
	assert.Equal(t, 10, prev.MessageID)
	assert.Equal(t, 112, prev.Surah)
	assert.Equal(t, now, prev.SentAt)

	_, had = s.Replace(2, 20, 1)
	assert.False(t, had, "chats are independent")

	msg, ok := s.Take(1)
	require.True(t, ok)
	assert.Equal(t, 11, msg.MessageID)

	_, ok = s.Take(1)
	assert.False(t, ok)
}
