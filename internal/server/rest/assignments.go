package rest

import (
	"net/http"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/server/rest/middleware"
)

func (h *Handler) MyAssignment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	a, err := h.assignments.MyAssignment(r.Context(), userID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	if !a.Assigned {
		h.JSON(w, http.StatusOK, map[string]any{"assigned": false, "message": a.Message})
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{
		"assigned":       true,
		"seenAssignment": a.SeenAssignment,
		"assignedTo":     a.AssignedTo,
	})
}

func (h *Handler) MarkAssignmentSeen(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	if err := h.assignments.MarkAssignmentSeen(r.Context(), userID); err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"message": "Assignment marked as seen", "seenAssignment": true})
}

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	wishlist, err := h.assignments.GetWishlist(r.Context(), userID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"wishlist": wishlist})
}

func (h *Handler) UpdateWishlist(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req struct {
		Wishlist any `json:"wishlist"`
	}
	if err := decode(r, &req); err != nil {
		h.Fail(w, r, err)
		return
	}

	items, err := wishlistItems(req.Wishlist)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	saved, err := h.assignments.UpdateWishlist(r.Context(), userID, items)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"message": "Wishlist updated successfully", "wishlist": saved})
}

// wishlistItems converts a decoded JSON value into wishlist items. A value
// that is not an array gives nil, which the service rejects.
func wishlistItems(v any) ([]string, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, nil
	}
	items := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, common.Invalid("wishlist items must be strings")
		}
		items = append(items, s)
	}
	return items, nil
}

func (h *Handler) GetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	q, err := h.assignments.GetQuestionnaire(r.Context(), userID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"questionnaire": q})
}

func (h *Handler) UpdateQuestionnaire(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req struct {
		Questionnaire any `json:"questionnaire"`
	}
	if err := decode(r, &req); err != nil {
		h.Fail(w, r, err)
		return
	}

	answers, _ := req.Questionnaire.(map[string]any)
	saved, err := h.assignments.UpdateQuestionnaire(r.Context(), userID, answers)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"message": "Questionnaire updated successfully", "questionnaire": saved})
}
