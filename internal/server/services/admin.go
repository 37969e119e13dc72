package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/logging"
	"github.com/dmitrijs2005/secretsanta/internal/metrics"
	"github.com/dmitrijs2005/secretsanta/internal/server/archive"
	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NewUser is one entry of an InitUsers batch. SecretKey is optional.
type NewUser struct {
	Name      string `json:"name"`
	SecretKey string `json:"secretKey,omitempty"`
}

// InitUserError reports why one batch entry was skipped.
type InitUserError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type InitUsersResult struct {
	Created []UserInfo      `json:"created"`
	Errors  []InitUserError `json:"errors,omitempty"`
}

type ShuffleResult struct {
	Assignments []archive.Pair `json:"assignments"`
	Fallback    bool           `json:"fallback"`
	ArchiveKey  string         `json:"archiveKey,omitempty"`
}

// AdminUser is a participant as listed for the administrator. AssignedTo is
// the name of the person they give to, empty when unassigned.
type AdminUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HasKey     bool   `json:"hasKey"`
	AssignedTo string `json:"assignedTo,omitempty"`
}

// AdminService runs the organiser's operations.
type AdminService struct {
	repomanager repomanager.RepositoryManager
	archiver    archive.Archiver
	logger      logging.Logger
	shuffle     ShuffleFunc
	now         func() time.Time
}

func NewAdminService(m repomanager.RepositoryManager, a archive.Archiver, l logging.Logger) *AdminService {
	if a == nil {
		a = archive.Nop{}
	}
	return &AdminService{
		repomanager: m,
		archiver:    a,
		logger:      l,
		now:         time.Now,
	}
}

// WithShuffle replaces the randomness used by Shuffle.
func (s *AdminService) WithShuffle(fn ShuffleFunc) *AdminService {
	s.shuffle = fn
	return s
}

// InitUsers creates the given participants. Failures are collected per entry
// and do not stop the batch.
func (s *AdminService) InitUsers(ctx context.Context, batch []NewUser) (*InitUsersResult, error) {
	if len(batch) == 0 {
		return nil, common.ErrNoUsersGiven
	}

	res := &InitUsersResult{Created: []UserInfo{}}
	for _, nu := range batch {
		name := strings.TrimSpace(nu.Name)
		if name == "" {
			res.Errors = append(res.Errors, InitUserError{Name: "Unknown", Error: "Name is required"})
			continue
		}

		u, err := s.createUser(ctx, name, nu.SecretKey)
		switch {
		case err == nil:
			res.Created = append(res.Created, UserInfo{ID: u.ID, Name: u.Name})
		case errors.Is(err, common.ErrorAlreadyExists):
			res.Errors = append(res.Errors, InitUserError{Name: name, Error: "User already exists"})
		default:
			s.logger.Error(ctx, "init user failed", "name", name, "error", err)
			res.Errors = append(res.Errors, InitUserError{Name: name, Error: err.Error()})
		}
	}

	s.logger.Info(ctx, "users initialized", "created", len(res.Created), "failed", len(res.Errors))
	return res, nil
}

func (s *AdminService) createUser(ctx context.Context, name, key string) (*models.User, error) {
	user := &models.User{Name: name}
	if key != "" {
		hash, err := hashKey(key)
		if err != nil {
			return nil, err
		}
		user.SecretKeyHash = &hash
	}
	return s.repomanager.Users().Create(ctx, user)
}

// Shuffle assigns every participant someone else to give to. Previous
// assignments are replaced and every reveal is reset. The new pairs are
// stored in one transaction and then archived; an archive failure is logged
// but does not undo the shuffle.
func (s *AdminService) Shuffle(ctx context.Context) (*ShuffleResult, error) {
	repo := s.repomanager.Users()

	users, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if len(users) < 2 {
		return nil, common.ErrNotEnoughUsers
	}

	perm, fallback := Derange(len(users), s.shuffle)

	err = s.repomanager.InTx(ctx, func(ctx context.Context) error {
		if err := repo.ResetSeenAssignments(ctx); err != nil {
			return err
		}
		for i, u := range users {
			if err := repo.SetAssignment(ctx, u.ID, users[perm[i]].ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: store assignments: %w", common.ErrorInternal, err)
	}

	res := &ShuffleResult{Fallback: fallback}
	for i, u := range users {
		res.Assignments = append(res.Assignments, archive.Pair{Name: u.Name, AssignedTo: users[perm[i]].Name})
	}

	mode := "random"
	if fallback {
		mode = "fallback"
	}
	metrics.Shuffles.WithLabelValues(mode).Inc()

	key, err := s.archiver.Save(ctx, &archive.Snapshot{
		ID:          uuid.NewString(),
		CreatedAt:   s.now().UTC(),
		Fallback:    fallback,
		Assignments: res.Assignments,
	})
	if err != nil {
		s.logger.Warn(ctx, "shuffle archive failed", "error", err)
	}
	res.ArchiveKey = key

	s.logger.Info(ctx, "assignments shuffled", "users", len(users), "fallback", fallback)
	return res, nil
}

// ListUsers returns every participant with their key status and assignee.
func (s *AdminService) ListUsers(ctx context.Context) ([]AdminUser, error) {
	users, err := s.repomanager.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	result := make([]AdminUser, 0, len(users))
	for _, u := range users {
		au := AdminUser{ID: u.ID, Name: u.Name, HasKey: u.HasSecretKey()}
		if u.HasAssignment() {
			au.AssignedTo = names[*u.AssignedTo]
		}
		result = append(result, au)
	}
	return result, nil
}

func (s *AdminService) ClearAssignments(ctx context.Context) error {
	if err := s.repomanager.Users().ClearAssignments(ctx); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	s.logger.Info(ctx, "assignments cleared")
	return nil
}

// ClearMessages deletes every message and returns how many were deleted.
func (s *AdminService) ClearMessages(ctx context.Context) (int64, error) {
	n, err := NewMessageService(s.repomanager).ClearAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "messages cleared", "count", n)
	return n, nil
}

func (s *AdminService) ListArchives(ctx context.Context) ([]archive.Entry, error) {
	entries, err := s.archiver.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return entries, nil
}
