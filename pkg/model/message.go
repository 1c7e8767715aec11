package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Message is a single log or diagnostic message produced during execution.
type Message struct {
	ID        ulid.ULID
	Timestamp time.Time
	Level     Level
	Text      string
	HTML      bool
}

// NewMessage creates a message stamped with the current time and a fresh ID.
func NewMessage(text string, level Level) *Message {
	return &Message{
		ID:        ulid.Make(),
		Timestamp: time.Now(),
		Level:     level,
		Text:      text,
	}
}
