package rest

import (
	"net/http"

	"github.com/dmitrijs2005/secretsanta/internal/server/services"
)

func (h *Handler) InitUsers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Users []services.NewUser `json:"users"`
	}
	if err := decode(r, &req); err != nil {
		h.Fail(w, r, err)
		return
	}

	res, err := h.admin.InitUsers(r.Context(), req.Users)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	body := map[string]any{"message": "Users initialized", "created": res.Created}
	if len(res.Errors) > 0 {
		body["errors"] = res.Errors
	}
	h.JSON(w, http.StatusOK, body)
}

func (h *Handler) Shuffle(w http.ResponseWriter, r *http.Request) {
	res, err := h.admin.Shuffle(r.Context())
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	message := "Assignments shuffled successfully"
	if res.Fallback {
		message = "Assignments shuffled (with fallback fix)"
	}
	h.JSON(w, http.StatusOK, map[string]any{"message": message, "assignments": res.Assignments})
}

func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) ClearAssignments(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.ClearAssignments(r.Context()); err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"message": "All assignments cleared"})
}

func (h *Handler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	n, err := h.admin.ClearMessages(r.Context())
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"message": "All messages cleared", "deleted": n})
}

func (h *Handler) ListArchives(w http.ResponseWriter, r *http.Request) {
	entries, err := h.admin.ListArchives(r.Context())
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"archives": entries})
}
