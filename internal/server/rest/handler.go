// Package rest serves the participant and admin JSON API over chi.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/logging"
	"github.com/dmitrijs2005/secretsanta/internal/server/services"
	"github.com/redis/go-redis/v9"
)

// Pinger is a dependency checked by /api/health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the services behind the HTTP endpoints.
type Handler struct {
	users       *services.UserService
	assignments *services.AssignmentService
	messages    *services.MessageService
	admin       *services.AdminService
	store       Pinger
	redis       *redis.Client
	logger      logging.Logger
}

func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(context.Background(), "encode response", "error", err)
	}
}

func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// Fail writes err as a JSON error. Internal failures are logged and hidden
// behind a generic message.
func (h *Handler) Fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		h.Error(w, status, "Server error")
		return
	}

	var e *common.Error
	if errors.As(err, &e) {
		h.Error(w, status, capitalize(e.Msg))
		return
	}
	h.Error(w, status, capitalize(err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorInternal):
		return http.StatusInternalServerError
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// decode reads a JSON object body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.Invalid("request body too large")
		}
		return common.Invalid("invalid JSON body")
	}
	return nil
}
