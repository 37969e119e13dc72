package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/logging"
	"github.com/dmitrijs2005/secretsanta/internal/server/config"
	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger         { return l }

func testConfig() *config.Config {
	return &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour}
}

// seedUsers creates participants with the given names; keys maps a name to
// its secret key when one should be set.
func seedUsers(t *testing.T, m repomanager.RepositoryManager, keys map[string]string, names ...string) map[string]*models.User {
	t.Helper()
	admin := NewAdminService(m, nil, nopLogger{})

	batch := make([]NewUser, 0, len(names))
	for _, n := range names {
		batch = append(batch, NewUser{Name: n, SecretKey: keys[n]})
	}
	res, err := admin.InitUsers(context.Background(), batch)
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	out := make(map[string]*models.User, len(names))
	for _, n := range names {
		u, err := m.Users().GetByName(context.Background(), n)
		require.NoError(t, err)
		out[n] = u
	}
	return out
}

// assign sets giver -> receiver directly in the store.
func assign(t *testing.T, m repomanager.RepositoryManager, giver, receiver *models.User) {
	t.Helper()
	require.NoError(t, m.Users().SetAssignment(context.Background(), giver.ID, receiver.ID))
}

// brokenUsers fails every List call.
type brokenUsers struct {
	users.Repository
}

func (brokenUsers) List(context.Context) ([]*models.User, error) { return nil, errStoreDown }

type brokenManager struct {
	*repomanager.MemoryRepositoryManager
}

func (m brokenManager) Users() users.Repository {
	return brokenUsers{m.MemoryRepositoryManager.Users()}
}
