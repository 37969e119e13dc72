package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/metrics"
	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/repomanager"
)

const MaxMessageLen = 2000

// Peer names the other side of a conversation relative to the caller.
type Peer string

const (
	// PeerAssignment is the person the caller gives to.
	PeerAssignment Peer = "assignment"
	// PeerSanta is the person who gives to the caller.
	PeerSanta Peer = "santa"
)

// Conversation is the thread between the caller and one peer. OtherUser is
// nil, and Messages empty, while the peer does not exist.
type Conversation struct {
	Messages  []*models.Message
	OtherUser *UserInfo
}

type MessageService struct {
	repomanager repomanager.RepositoryManager
}

func NewMessageService(m repomanager.RepositoryManager) *MessageService {
	return &MessageService{repomanager: m}
}

func (s *MessageService) Conversation(ctx context.Context, userID string, peer Peer) (*Conversation, error) {
	other, err := s.resolvePeer(ctx, userID, peer)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return &Conversation{Messages: []*models.Message{}}, nil
	}

	msgs, err := s.repomanager.Messages().Conversation(ctx, userID, other.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return &Conversation{
		Messages:  msgs,
		OtherUser: &UserInfo{ID: other.ID, Name: other.Name},
	}, nil
}

// Send stores a message from the caller to their peer. The text is trimmed
// and must be non-empty and at most MaxMessageLen characters.
func (s *MessageService) Send(ctx context.Context, userID string, peer Peer, text string) (*models.Message, error) {
	other, err := s.resolvePeer(ctx, userID, peer)
	if err != nil {
		return nil, err
	}
	if other == nil {
		if peer == PeerSanta {
			return nil, common.ErrNoSanta
		}
		return nil, common.ErrNoAssignment
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLen {
		return nil, common.Invalid("message is too long (max %d characters)", MaxMessageLen)
	}

	msg, err := s.repomanager.Messages().Create(ctx, &models.Message{
		SenderID:   userID,
		ReceiverID: other.ID,
		Body:       text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	metrics.MessagesSent.WithLabelValues(string(peer)).Inc()
	return msg, nil
}

// ClearAll deletes every message and returns how many were deleted.
func (s *MessageService) ClearAll(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Messages().DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return n, nil
}

// resolvePeer returns the caller's peer, or nil when there is none yet.
func (s *MessageService) resolvePeer(ctx context.Context, userID string, peer Peer) (*models.User, error) {
	repo := s.repomanager.Users()

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err)
	}

	var other *models.User
	switch peer {
	case PeerAssignment:
		if !user.HasAssignment() {
			return nil, nil
		}
		other, err = repo.GetByID(ctx, *user.AssignedTo)
	case PeerSanta:
		other, err = repo.GetByAssignee(ctx, user.ID)
	default:
		return nil, common.Invalid("unknown conversation %q", peer)
	}

	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return other, nil
}
