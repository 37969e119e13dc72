package rest

import (
	"net/http"

	"github.com/dmitrijs2005/secretsanta/internal/server/rest/middleware"
	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	Name      string `json:"name"`
	SecretKey string `json:"secretKey"`
}

type keyRequest struct {
	SecretKey  string `json:"secretKey"`
	CurrentKey string `json:"currentKey"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.Fail(w, r, err)
		return
	}

	sess, err := h.users.Login(r.Context(), req.Name, req.SecretKey)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, sess)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	info, err := h.users.Verify(r.Context(), userID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"user": info})
}

func (h *Handler) ListNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.users.ListNames(r.Context())
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"users": names})
}

func (h *Handler) CheckKey(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	hasKey, err := h.users.CheckKey(r.Context(), name)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"hasKey": hasKey, "name": name})
}

func (h *Handler) VerifyKey(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req keyRequest
	if err := decode(r, &req); err != nil {
		h.Fail(w, r, err)
		return
	}

	valid, err := h.users.VerifyKey(r.Context(), name, req.SecretKey)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"valid": valid, "name": name})
}

func (h *Handler) SetKey(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req keyRequest
	if err := decode(r, &req); err != nil {
		h.Fail(w, r, err)
		return
	}

	if err := h.users.SetKey(r.Context(), name, req.SecretKey, req.CurrentKey); err != nil {
		h.Fail(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"message": "Secret key updated successfully", "name": name})
}
