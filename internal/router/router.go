package router

import (
	"net/http"
	"strings"

	"bookstore/internal/handler"
	"bookstore/internal/middleware"

	"github.com/rs/zerolog"
)

// Config holds the router's cross-cutting settings.
type Config struct {
	APIKey        string
	AllowedOrigin string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	bookHandler *handler.BookHandler,
	promotionHandler *handler.PromotionHandler,
	orderHandler *handler.OrderHandler,
	cfg Config,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("GET /api/books", bookHandler.GetAll)
	mux.HandleFunc("GET /api/books/{id}", bookHandler.GetByID)

	mux.HandleFunc("POST /api/promotions/validate", promotionHandler.Validate)

	mux.HandleFunc("POST /api/orders", orderHandler.Create)
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(cfg.APIKey, isPublic, logger)(h)
	h = middleware.CORS(cfg.AllowedOrigin)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	return h
}

// isPublic reports whether a request may skip API key authentication.
// Browsing the catalogue and checking a code are open to the storefront.
func isPublic(r *http.Request) bool {
	switch {
	case r.URL.Path == "/health":
		return true
	case r.Method == http.MethodGet && (r.URL.Path == "/api/books" || strings.HasPrefix(r.URL.Path, "/api/books/")):
		return true
	case r.Method == http.MethodPost && r.URL.Path == "/api/promotions/validate":
		return true
	}
	return false
}
