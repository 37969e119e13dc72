package models

import "time"

// Message is an immutable note between a giver and a receiver.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Body       string
	CreatedAt  time.Time
}
