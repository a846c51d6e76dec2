package entities

import "time"

// User represents a Telegram user of the bot.
type User struct {
	ID        int64     // Telegram user ID
	ChatID    int64     // chat to deliver messages to
	IsActive  bool      // false once the user blocked the bot
	CreatedAt time.Time // registration time
}

// NewUser creates an active user.
func NewUser(id, chatID int64) *User {
	return &User{
		ID:        id,
		ChatID:    chatID,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}
