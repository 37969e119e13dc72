// Package services contains the server-side business logic shared by the
// REST API and the admin RPC service.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/metrics"
	"github.com/dmitrijs2005/secretsanta/internal/server/auth"
	"github.com/dmitrijs2005/secretsanta/internal/server/config"
	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/repomanager"
)

// UserInfo is the public identity of a participant.
type UserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session is the result of a successful login.
// NameInfo is the public view of a participant in the login picker.
type NameInfo struct {
	Name string `json:"name"`
}

type Session struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// UserService handles participant login and secret key management.
type UserService struct {
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	tokenTTL    time.Duration
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	ttl := cfg.AccessTokenValidityDuration
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	return &UserService{
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    ttl,
	}
}

// Login authenticates a participant by name and secret key. Without a name,
// the first participant whose key matches is chosen; older clients log in
// that way.
func (s *UserService) Login(ctx context.Context, name, secretKey string) (*Session, error) {
	if secretKey == "" {
		return nil, common.ErrSecretKeyRequired
	}

	user, err := s.findByKey(ctx, name, secretKey)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, user.Name, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: sign token: %w", common.ErrorInternal, err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return &Session{Token: token, User: UserInfo{ID: user.ID, Name: user.Name}}, nil
}

func (s *UserService) findByKey(ctx context.Context, name, secretKey string) (*models.User, error) {
	repo := s.repomanager.Users()

	if name != "" {
		user, err := s.getByName(ctx, name)
		if err != nil {
			return nil, err
		}
		ok, err := auth.CheckSecretKey(user.SecretKeyHash, secretKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
		if !ok {
			return nil, common.ErrInvalidSecretKey
		}
		return user, nil
	}

	all, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	for _, u := range all {
		if ok, _ := auth.CheckSecretKey(u.SecretKeyHash, secretKey); ok {
			return u, nil
		}
	}
	return nil, common.ErrInvalidSecretKey
}

// Verify returns the identity behind a validated token.
func (s *UserService) Verify(ctx context.Context, userID string) (*UserInfo, error) {
	user, err := s.getByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name}, nil
}

// ListNames returns the names of all participants for the login picker.
func (s *UserService) ListNames(ctx context.Context) ([]NameInfo, error) {
	users, err := s.repomanager.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	names := make([]NameInfo, 0, len(users))
	for _, u := range users {
		names = append(names, NameInfo{Name: u.Name})
	}
	return names, nil
}

// CheckKey reports whether the participant has set a secret key.
func (s *UserService) CheckKey(ctx context.Context, name string) (bool, error) {
	user, err := s.getByName(ctx, name)
	if err != nil {
		return false, err
	}
	return user.HasSecretKey(), nil
}

// VerifyKey reports whether key is the participant's secret key. A wrong key
// is not an error.
func (s *UserService) VerifyKey(ctx context.Context, name, key string) (bool, error) {
	if key == "" {
		return false, common.ErrSecretKeyRequired
	}
	user, err := s.getByName(ctx, name)
	if err != nil {
		return false, err
	}
	ok, err := auth.CheckSecretKey(user.SecretKeyHash, key)
	if err != nil {
		return false, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return ok, nil
}

// SetKey sets the participant's secret key. Replacing an existing key
// requires the current one.
func (s *UserService) SetKey(ctx context.Context, name, newKey, currentKey string) error {
	if newKey == "" {
		return common.ErrSecretKeyRequired
	}
	user, err := s.getByName(ctx, name)
	if err != nil {
		return err
	}

	if user.HasSecretKey() {
		if currentKey == "" {
			return common.ErrCurrentKeyRequired
		}
		ok, err := auth.CheckSecretKey(user.SecretKeyHash, currentKey)
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
		if !ok {
			return common.ErrCurrentKeyIncorrect
		}
	}

	hash, err := hashKey(newKey)
	if err != nil {
		return err
	}
	if err := s.repomanager.Users().SetSecretKeyHash(ctx, user.ID, hash); err != nil {
		return lookupError(err)
	}
	return nil
}

func (s *UserService) getByName(ctx context.Context, name string) (*models.User, error) {
	user, err := s.repomanager.Users().GetByName(ctx, name)
	if err != nil {
		return nil, lookupError(err)
	}
	return user, nil
}

func (s *UserService) getByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}
	return user, nil
}

func hashKey(key string) (string, error) {
	if len(key) > auth.MaxSecretKeyLen {
		return "", common.Invalid("secret key is too long (max %d bytes)", auth.MaxSecretKeyLen)
	}
	hash, err := auth.HashSecretKey(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return hash, nil
}

// lookupError turns a repository failure into ErrUserNotFound or an
// internal error.
func lookupError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrUserNotFound
	}
	return fmt.Errorf("%w: %w", common.ErrorInternal, err)
}
