package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/messages"
	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Data is lost
// on restart; it serves local runs and tests.
type MemoryRepositoryManager struct {
	txMu     sync.Mutex
	users    *users.MemoryRepository
	messages *messages.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		messages: messages.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Messages() messages.Repository {
	return m.messages
}

// InTx serialises transactions and restores the previous contents when fn
// fails. Writes made outside InTx while one is running are not isolated.
func (m *MemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	restoreUsers := m.users.Snapshot()
	restoreMessages := m.messages.Snapshot()

	committed := false
	defer func() {
		if !committed {
			restoreUsers()
			restoreMessages()
		}
	}()

	if err := fn(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Close(ctx context.Context) error {
	return nil
}
