package users

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. It backs the memory://
// store and the service tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.User)}
}

func clone(u *models.User) *models.User {
	c := *u
	if u.SecretKeyHash != nil {
		h := *u.SecretKeyHash
		c.SecretKeyHash = &h
	}
	if u.AssignedTo != nil {
		a := *u.AssignedTo
		c.AssignedTo = &a
	}
	c.Wishlist = slices.Clone(u.Wishlist)
	if c.Wishlist == nil {
		c.Wishlist = []string{}
	}
	c.Questionnaire = maps.Clone(u.Questionnaire)
	if c.Questionnaire == nil {
		c.Questionnaire = map[string]any{}
	}
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Name == user.Name {
			return nil, common.ErrorAlreadyExists
		}
	}

	stored := clone(user)
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	stored.AssignedTo = nil
	stored.SeenAssignment = false

	r.byID[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	return clone(stored), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Name == name })
}

func (r *MemoryRepository) GetByAssignee(ctx context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.AssignedTo != nil && *u.AssignedTo == id })
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, clone(r.byID[id]))
	}
	return result, nil
}

func (r *MemoryRepository) SetSecretKeyHash(ctx context.Context, id string, hash string) error {
	return r.update(id, func(u *models.User) { u.SecretKeyHash = &hash })
}

func (r *MemoryRepository) SetAssignment(ctx context.Context, giverID, receiverID string) error {
	r.mu.RLock()
	_, ok := r.byID[receiverID]
	r.mu.RUnlock()
	if !ok {
		return common.ErrorNotFound
	}
	return r.update(giverID, func(u *models.User) { u.AssignedTo = &receiverID })
}

func (r *MemoryRepository) MarkAssignmentSeen(ctx context.Context, id string) error {
	return r.update(id, func(u *models.User) { u.SeenAssignment = true })
}

func (r *MemoryRepository) UpdateWishlist(ctx context.Context, id string, wishlist []string) error {
	return r.update(id, func(u *models.User) { u.Wishlist = slices.Clone(wishlist) })
}

func (r *MemoryRepository) UpdateQuestionnaire(ctx context.Context, id string, questionnaire map[string]any) error {
	return r.update(id, func(u *models.User) { u.Questionnaire = maps.Clone(questionnaire) })
}

func (r *MemoryRepository) ClearAssignments(ctx context.Context) error {
	r.updateAll(func(u *models.User) { u.AssignedTo = nil })
	return nil
}

func (r *MemoryRepository) ResetSeenAssignments(ctx context.Context) error {
	r.updateAll(func(u *models.User) { u.SeenAssignment = false })
	return nil
}

// Snapshot captures the current contents and returns a function restoring
// them. The memory store uses it to roll back failed transactions.
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.RLock()
	order := slices.Clone(r.order)
	byID := make(map[string]*models.User, len(r.byID))
	for id, u := range r.byID {
		byID[id] = clone(u)
	}
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.order = order
		r.byID = byID
		r.mu.Unlock()
	}
}

func (r *MemoryRepository) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if u := r.byID[id]; match(u) {
			return clone(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) update(id string, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(u)
	return nil
}

func (r *MemoryRepository) updateAll(fn func(*models.User)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		fn(u)
	}
}
