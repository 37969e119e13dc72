// Package messages stores the notes exchanged between a giver and a receiver.
package messages

import (
	"context"

	"github.com/dmitrijs2005/secretsanta/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	// Conversation returns the messages exchanged between a and b in either
	// direction, oldest first.
	Conversation(ctx context.Context, a, b string) ([]*models.Message, error)
	// DeleteAll removes every message and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}
