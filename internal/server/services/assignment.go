package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/repomanager"
)

const (
	MaxWishlistItems   = 50
	MaxWishlistItemLen = 500

	msgNoAssignmentYet    = "No assignment yet. Wait for admin to shuffle!"
	msgAssignmentNotFound = "Assignment not found"
)

// AssignedPerson is what a giver may see about the person they give to.
type AssignedPerson struct {
	Name          string         `json:"name"`
	Wishlist      []string       `json:"wishlist"`
	Questionnaire map[string]any `json:"questionnaire"`
}

// Assignment is a participant's view of their own assignment. When Assigned
// is false, Message explains why and the other fields are empty.
type Assignment struct {
	Assigned       bool
	Message        string
	SeenAssignment bool
	AssignedTo     *AssignedPerson
}

// AssignmentService serves a participant's assignment and profile.
type AssignmentService struct {
	repomanager repomanager.RepositoryManager
}

func NewAssignmentService(m repomanager.RepositoryManager) *AssignmentService {
	return &AssignmentService{repomanager: m}
}

func (s *AssignmentService) MyAssignment(ctx context.Context, userID string) (*Assignment, error) {
	repo := s.repomanager.Users()

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err)
	}
	if !user.HasAssignment() {
		return &Assignment{Message: msgNoAssignmentYet}, nil
	}

	target, err := repo.GetByID(ctx, *user.AssignedTo)
	if errors.Is(err, common.ErrorNotFound) {
		return &Assignment{Message: msgAssignmentNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return &Assignment{
		Assigned:       true,
		SeenAssignment: user.SeenAssignment,
		AssignedTo: &AssignedPerson{
			Name:          target.Name,
			Wishlist:      target.Wishlist,
			Questionnaire: target.Questionnaire,
		},
	}, nil
}

func (s *AssignmentService) MarkAssignmentSeen(ctx context.Context, userID string) error {
	if err := s.repomanager.Users().MarkAssignmentSeen(ctx, userID); err != nil {
		return lookupError(err)
	}
	return nil
}

func (s *AssignmentService) GetWishlist(ctx context.Context, userID string) ([]string, error) {
	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err)
	}
	return user.Wishlist, nil
}

// UpdateWishlist replaces the participant's wishlist and returns it.
func (s *AssignmentService) UpdateWishlist(ctx context.Context, userID string, wishlist []string) ([]string, error) {
	if wishlist == nil {
		return nil, common.Invalid("Wishlist must be an array")
	}
	if len(wishlist) > MaxWishlistItems {
		return nil, common.Invalid("wishlist can have at most %d items", MaxWishlistItems)
	}
	for _, item := range wishlist {
		if utf8.RuneCountInString(item) > MaxWishlistItemLen {
			return nil, common.Invalid("wishlist items can be at most %d characters", MaxWishlistItemLen)
		}
	}

	if err := s.repomanager.Users().UpdateWishlist(ctx, userID, wishlist); err != nil {
		return nil, lookupError(err)
	}
	return wishlist, nil
}

func (s *AssignmentService) GetQuestionnaire(ctx context.Context, userID string) (map[string]any, error) {
	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err)
	}
	return user.Questionnaire, nil
}

// UpdateQuestionnaire replaces the participant's questionnaire answers.
func (s *AssignmentService) UpdateQuestionnaire(ctx context.Context, userID string, questionnaire map[string]any) (map[string]any, error) {
	if questionnaire == nil {
		return nil, common.Invalid("Questionnaire must be an object")
	}
	if err := s.repomanager.Users().UpdateQuestionnaire(ctx, userID, questionnaire); err != nil {
		return nil, lookupError(err)
	}
	return questionnaire, nil
}
