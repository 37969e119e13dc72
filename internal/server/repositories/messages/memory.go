package messages

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"github.com/oklog/ulid/v2"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	msgs []models.Message
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := *msg
	m.ID = ulid.Make().String()
	m.CreatedAt = time.Now().UTC()
	r.msgs = append(r.msgs, m)

	return &m, nil
}

func (r *MemoryRepository) Conversation(ctx context.Context, a, b string) ([]*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.Message{}
	for _, m := range r.msgs {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			c := m
			result = append(result, &c)
		}
	}
	return result, nil
}

func (r *MemoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.msgs))
	r.msgs = nil
	return n, nil
}

// Snapshot captures the current contents and returns a function restoring them.
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.RLock()
	saved := slices.Clone(r.msgs)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.msgs = saved
		r.mu.Unlock()
	}
}
