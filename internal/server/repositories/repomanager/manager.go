// Package repomanager groups the repositories of one storage backend and
// selects the backend from the DSN scheme.
package repomanager

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/messages"
	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Messages() messages.Repository

	// InTx runs fn so that repository calls made with the ctx it receives
	// are applied together or not at all, as far as the backend allows.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error

	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the store named by dsn: postgres:// or postgresql://,
// mongodb:// or mongodb+srv://, memory://.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return OpenPostgres(ctx, dsn)
	case "mongodb", "mongodb+srv":
		return OpenMongo(ctx, dsn)
	case "memory":
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported store %q", u.Scheme)
	}
}
