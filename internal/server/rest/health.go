package rest

import (
	"context"
	"net/http"
	"time"
)

type Check struct {
	Status  string `json:"status"` // "pass" or "fail"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status  string           `json:"status"` // "ok" or "degraded"
	Message string           `json:"message"`
	Checks  map[string]Check `json:"checks"`
}

// Health reports the server and its store; Redis is checked when the rate
// limiter uses it. A failing dependency answers 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]Check{}
	healthy := true

	if h.store != nil {
		checks["store"] = runCheck(ctx, h.store.Ping)
		healthy = healthy && checks["store"].Status == "pass"
	}
	if h.redis != nil {
		checks["redis"] = runCheck(ctx, func(ctx context.Context) error {
			return h.redis.Ping(ctx).Err()
		})
		healthy = healthy && checks["redis"].Status == "pass"
	}

	if !healthy {
		h.JSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Message: "Server is degraded", Checks: checks})
		return
	}
	h.JSON(w, http.StatusOK, HealthResponse{Status: "ok", Message: "Server is running", Checks: checks})
}

func runCheck(ctx context.Context, ping func(context.Context) error) Check {
	start := time.Now()
	if err := ping(ctx); err != nil {
		return Check{Status: "fail", Message: "connection failed"}
	}
	return Check{Status: "pass", Latency: time.Since(start).String()}
}
