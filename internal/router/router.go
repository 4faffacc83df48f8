package router

import (
	"net/http"

	"kartalog/internal/handler"
	"kartalog/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// staticPrefix/staticDir serve locally stored photo assets; both empty when
// assets live elsewhere.
func New(
	productHandler *handler.ProductHandler,
	adminKey string,
	staticPrefix, staticDir string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()
	adminOnly := middleware.AdminOnly(adminKey, logger)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Fixed product routes. These must be registered before the {id}
	// catch-all so "latest" and friends never parse as product IDs.
	mux.Handle("/api/products/new", adminOnly(http.HandlerFunc(productHandler.Create)))
	mux.HandleFunc("/api/products/latest", productHandler.Latest)
	mux.HandleFunc("/api/products/categories", productHandler.Categories)
	mux.Handle("/api/products/admin", adminOnly(http.HandlerFunc(productHandler.AdminListing)))
	mux.HandleFunc("/api/products/search", productHandler.Search)

	// Single-product routes, dispatched on method
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			productHandler.GetByID(w, r)
		case http.MethodPut:
			adminOnly(http.HandlerFunc(productHandler.Update)).ServeHTTP(w, r)
		case http.MethodDelete:
			adminOnly(http.HandlerFunc(productHandler.Delete)).ServeHTTP(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Serve locally stored photo assets
	if staticPrefix != "" && staticDir != "" {
		mux.Handle(staticPrefix+"/", http.StripPrefix(staticPrefix+"/", http.FileServer(http.Dir(staticDir))))
	}

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
