// Package users stores participants. Every backend returns
// common.ErrorNotFound for unknown users and common.ErrorAlreadyExists for a
// duplicate name.
package users

import (
	"context"

	"github.com/dmitrijs2005/secretsanta/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
	// List returns every user in creation order.
	List(ctx context.Context) ([]*models.User, error)
	// GetByAssignee returns the user whose AssignedTo is id, i.e. id's santa.
	GetByAssignee(ctx context.Context, id string) (*models.User, error)

	SetSecretKeyHash(ctx context.Context, id string, hash string) error
	SetAssignment(ctx context.Context, giverID, receiverID string) error
	ClearAssignments(ctx context.Context) error
	ResetSeenAssignments(ctx context.Context) error
	MarkAssignmentSeen(ctx context.Context, id string) error
	UpdateWishlist(ctx context.Context, id string, wishlist []string) error
	UpdateQuestionnaire(ctx context.Context, id string, questionnaire map[string]any) error
}
