package transporthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/swaggo/swag"

	"github.com/MrKriegler/go-renewals/internal/http/handlers"
	"github.com/MrKriegler/go-renewals/internal/middleware"
)

// Deps bundles feature handlers that implement handlers.Mountable plus the
// cross-cutting settings applied around them.
type Deps struct {
	Mounts []handlers.Mountable

	// Health serves /health and /readyz outside authentication.
	Health http.Handler

	APIKeys        []string
	AllowedOrigins []string
	RateLimit      func(http.Handler) http.Handler
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	if len(d.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(d.AllowedOrigins))
	}
	if d.RateLimit != nil {
		r.Use(d.RateLimit)
	}
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}

	if d.Health != nil {
		r.Mount("/", d.Health)
	}

	r.Get("/swagger/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, "api docs not registered", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.LimitRequestBody(middleware.MaxBodySize))
		if len(d.APIKeys) > 0 {
			r.Use(middleware.SimpleAPIKey(d.APIKeys...))
		}
		r.Use(middleware.SetJSONContentType)

		handlers.MountAll(r, d.Mounts...)
	})

	return r
}
