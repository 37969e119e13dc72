package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"github.com/dmitrijs2005/secretsanta/internal/server/rest/middleware"
	"github.com/dmitrijs2005/secretsanta/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// timestampLayout is RFC 3339 in UTC with a literal Z.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

type messageView struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	IsFromMe   bool   `json:"isFromMe"`
	CreatedAt  string `json:"createdAt"`
}

func viewMessage(m *models.Message, userID string) messageView {
	return messageView{
		ID:         m.ID,
		Message:    m.Body,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		IsFromMe:   m.SenderID == userID,
		CreatedAt:  formatTimestamp(m.CreatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func (h *Handler) Conversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	peer := services.Peer(chi.URLParam(r, "peer"))

	conv, err := h.messages.Conversation(r.Context(), userID, peer)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	msgs := make([]messageView, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		msgs = append(msgs, viewMessage(m, userID))
	}
	h.JSON(w, http.StatusOK, map[string]any{"messages": msgs, "otherUser": conv.OtherUser})
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	peer := services.Peer(chi.URLParam(r, "peer"))

	var req struct {
		Message string `json:"message"`
	}
	if err := decode(r, &req); err != nil {
		h.Fail(w, r, err)
		return
	}

	msg, err := h.messages.Send(r.Context(), userID, peer, req.Message)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"message": viewMessage(msg, userID)})
}
