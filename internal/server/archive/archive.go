// Package archive keeps a copy of every shuffle result in S3-compatible
// object storage so that an exchange can be reconstructed later.
package archive

import (
	"context"
	"time"
)

// Pair is one giver and the participant they give to.
type Pair struct {
	Name       string `json:"name"`
	AssignedTo string `json:"assignedTo"`
}

// Snapshot is the stored form of one shuffle.
type Snapshot struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Fallback    bool      `json:"fallback"`
	Assignments []Pair    `json:"assignments"`
}

// Entry describes a stored snapshot. URL is a short-lived download link.
type Entry struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	URL          string    `json:"url"`
}

type Archiver interface {
	Save(ctx context.Context, s *Snapshot) (key string, err error)
	List(ctx context.Context) ([]Entry, error)
}

// Nop discards snapshots. It is used when no bucket is configured.
type Nop struct{}

func (Nop) Save(context.Context, *Snapshot) (string, error) { return "", nil }

func (Nop) List(context.Context) ([]Entry, error) { return []Entry{}, nil }
