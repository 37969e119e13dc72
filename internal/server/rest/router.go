package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/logging"
	"github.com/dmitrijs2005/secretsanta/internal/server/rest/middleware"
	"github.com/dmitrijs2005/secretsanta/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const maxBodyBytes = 256 * 1024

// Services are the domain services served by the router. Store is pinged
// by the health check.
type Services struct {
	Users       *services.UserService
	Assignments *services.AssignmentService
	Messages    *services.MessageService
	Admin       *services.AdminService
	Store       Pinger
}

type Options struct {
	JWTSecret          []byte
	AdminToken         string
	CORSAllowedOrigins []string
	// RateLimiter guards the key endpoints; nil disables limiting.
	RateLimiter *middleware.RateLimiter
	// Redis, when set, is reported by the health check.
	Redis  *redis.Client
	Logger logging.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(svc Services, opts Options) *chi.Mux {
	h := &Handler{
		users:       svc.Users,
		assignments: svc.Assignments,
		messages:    svc.Messages,
		admin:       svc.Admin,
		store:       svc.Store,
		redis:       opts.Redis,
		logger:      opts.Logger,
	}

	r := chi.NewRouter()

	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(chimw.Recoverer)

	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", common.AdminTokenHTTPHeader},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	rl := opts.RateLimiter
	requireUser := middleware.RequireUser(opts.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/auth", func(r chi.Router) {
			r.With(rl.Limit("login", 10, time.Minute)).Post("/login", h.Login)
			r.With(requireUser).Get("/verify", h.Verify)
			r.Get("/users", h.ListNames)
			r.Get("/users/{name}/check-key", h.CheckKey)
			r.With(rl.Limit("verify-key", 20, time.Minute)).Post("/users/{name}/verify-key", h.VerifyKey)
			r.With(rl.Limit("set-key", 10, time.Minute)).Post("/users/{name}/set-key", h.SetKey)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/my-assignment", h.MyAssignment)
			r.Post("/my-assignment/mark-seen", h.MarkAssignmentSeen)
			r.Get("/my-wishlist", h.GetWishlist)
			r.Put("/my-wishlist", h.UpdateWishlist)
			r.Get("/my-questionnaire", h.GetQuestionnaire)
			r.Put("/my-questionnaire", h.UpdateQuestionnaire)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/conversation/{peer}", h.Conversation)
			r.Post("/send/{peer}", h.Send)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(opts.AdminToken))
			r.Post("/init-users", h.InitUsers)
			r.Post("/shuffle", h.Shuffle)
			r.Get("/users", h.AdminUsers)
			r.Post("/clear-assignments", h.ClearAssignments)
			r.Post("/clear-messages", h.ClearMessages)
			r.Get("/archives", h.ListArchives)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.Error(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
