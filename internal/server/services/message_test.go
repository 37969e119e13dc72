package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation_NoPeer(t *testing.T) {
	ctx := context.Background()
	m := repomanager.NewMemoryRepositoryManager()
	u := seedUsers(t, m, nil, "alice", "bob")
	s := NewMessageService(m)

	for _, peer := range []Peer{PeerAssignment, PeerSanta} {
		conv, err := s.Conversation(ctx, u["alice"].ID, peer)
		require.NoError(t, err)
		assert.Nil(t, conv.OtherUser)
		assert.NotNil(t, conv.Messages)
		assert.Empty(t, conv.Messages)
	}

	_, err := s.Send(ctx, u["alice"].ID, PeerAssignment, "hi")
	assert.ErrorIs(t, err, common.ErrNoAssignment)
	_, err = s.Send(ctx, u["alice"].ID, PeerSanta, "hi")
	assert.ErrorIs(t, err, common.ErrNoSanta)
}

func TestSendAndConversation(t *testing.T) {
	ctx := context.Background()
	m := repomanager.NewMemoryRepositoryManager()
	u := seedUsers(t, m, nil, "alice", "bob")
	assign(t, m, u["alice"], u["bob"])
	assign(t, m, u["bob"], u["alice"])
	s := NewMessageService(m)

	sent, err := s.Send(ctx, u["alice"].ID, PeerAssignment, "  what do you like?  ")
	require.NoError(t, err)
	assert.Equal(t, "what do you like?", sent.Body)
	assert.Equal(t, u["bob"].ID, sent.ReceiverID)

	_, err = s.Send(ctx, u["bob"].ID, PeerSanta, "books")
	require.NoError(t, err)

	conv, err := s.Conversation(ctx, u["alice"].ID, PeerAssignment)
	require.NoError(t, err)
	require.NotNil(t, conv.OtherUser)
	assert.Equal(t, "bob", conv.OtherUser.Name)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "what do you like?", conv.Messages[0].Body)
	assert.Equal(t, "books", conv.Messages[1].Body)

	// bob sees the same thread from the santa side
	conv, err = s.Conversation(ctx, u["bob"].ID, PeerSanta)
	require.NoError(t, err)
	assert.Equal(t, "alice", conv.OtherUser.Name)
	assert.Len(t, conv.Messages, 2)

	n, err := s.ClearAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	conv, err = s.Conversation(ctx, u["alice"].ID, PeerAssignment)
	require.NoError(t, err)
	assert.Empty(t, conv.Messages)
}

func TestSend_Validation(t *testing.T) {
	ctx := context.Background()
	m := repomanager.NewMemoryRepositoryManager()
	u := seedUsers(t, m, nil, "alice", "bob")
	assign(t, m, u["alice"], u["bob"])
	s := NewMessageService(m)

	_, err := s.Send(ctx, u["alice"].ID, PeerAssignment, " \n\t ")
	assert.ErrorIs(t, err, common.ErrEmptyMessage)

	_, err = s.Send(ctx, u["alice"].ID, PeerAssignment, strings.Repeat("a", MaxMessageLen+1))
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Send(ctx, u["alice"].ID, PeerAssignment, strings.Repeat("a", MaxMessageLen))
	assert.NoError(t, err)

	_, err = s.Send(ctx, u["alice"].ID, Peer("neighbour"), "hi")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Send(ctx, "missing", PeerAssignment, "hi")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}
