package client

import (
	"context"

	pb "github.com/dmitrijs2005/secretsanta/internal/proto"
)

// Client is the admin API santactl talks to.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	InitUsers(ctx context.Context, users []pb.NewUser) (*pb.InitUsersResponse, error)
	Shuffle(ctx context.Context) (*pb.ShuffleResponse, error)
	ListUsers(ctx context.Context) ([]pb.User, error)
	ClearAssignments(ctx context.Context) error
	ClearMessages(ctx context.Context) (int64, error)
	ListArchives(ctx context.Context) ([]pb.Archive, error)
}
