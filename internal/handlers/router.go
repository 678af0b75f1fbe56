package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/xelth-com/shopreply/internal/mailer"
	"github.com/xelth-com/shopreply/internal/middleware"
	"github.com/xelth-com/shopreply/internal/models"
)

// EmailProcessor drafts a reply for one inbound email
type EmailProcessor interface {
	Process(ctx context.Context, email models.InboundEmail) (*models.ComposedReply, error)
}

// AuditStore keeps the operator audit trail
type AuditStore interface {
	Record(ctx context.Context, entry models.EmailAudit) error
	Recent(ctx context.Context, limit int) ([]models.EmailAudit, error)
}

// Options configures the optional HTTP layers
type Options struct {
	JWTSecret      string // empty disables bearer auth
	RateLimiter    *middleware.RateLimiter
	RequestTimeout time.Duration
}

// Router wraps the mux router and the drafting pipeline
type Router struct {
	*mux.Router
	pipeline       EmailProcessor
	audit          AuditStore
	mailer         mailer.Sender
	requestTimeout time.Duration
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(pipeline EmailProcessor, opts Options) *Router {
	r := &Router{
		Router:         mux.NewRouter(),
		pipeline:       pipeline,
		requestTimeout: opts.RequestTimeout,
	}

	r.Use(middleware.RequestIDMiddleware)
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware)
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Protected routes
	protected := r.NewRoute().Subrouter()
	if opts.JWTSecret != "" {
		protected.Use(middleware.AuthMiddleware(opts.JWTSecret))
	}
	protected.HandleFunc("/process-email", r.processEmail).Methods("POST")
	protected.HandleFunc("/api/audit", r.listAudit).Methods("GET")

	return r
}

// SetAuditStore enables the audit trail
func (r *Router) SetAuditStore(store AuditStore) {
	r.audit = store
}

// SetMailer enables sending drafted replies to customers
func (r *Router) SetMailer(sender mailer.Sender) {
	r.mailer = sender
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
