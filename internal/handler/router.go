package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mindcanvas/internal/logging"
	"mindcanvas/internal/metrics"
)

// RouterOptions carries the optional pieces mounted next to the API
type RouterOptions struct {
	// AllowedOrigins for CORS; empty allows any origin
	AllowedOrigins []string
	// Metrics instruments requests and serves /metrics when set
	Metrics *metrics.Collector
	// Events serves the server-sent event stream at /events when set
	Events http.Handler
}

// Router configures all routes and middleware
func (h *Handler) Router(opts RouterOptions) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(logging.Middleware(h.logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", h.Health)
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	if opts.Events != nil {
		router.Method(http.MethodGet, "/events", opts.Events)
	}

	router.Route("/api", func(r chi.Router) {
		r.Post("/generate", h.Generate)

		r.Route("/maps", func(r chi.Router) {
			r.Get("/", h.ListMaps)
			r.Post("/", h.CreateMap)
			r.Post("/import", h.ImportMap)
			r.Get("/{id}", h.GetMap)
			r.Put("/{id}", h.UpdateMap)
			r.Delete("/{id}", h.DeleteMap)
			r.Get("/{id}/export", h.ExportMap)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.OpenSession)
			r.Get("/{id}", h.GetSession)
			r.Delete("/{id}", h.CloseSession)
			r.Get("/{id}/frame.png", h.Frame)
			r.Get("/{id}/snapshot", h.Snapshot)
			r.Get("/{id}/positions", h.Positions)
			r.Post("/{id}/pointer", h.Pointer)
			r.Post("/{id}/wheel", h.Wheel)
			r.Post("/{id}/view", h.View)
			r.Post("/{id}/resize", h.Resize)
			r.Post("/{id}/actions", h.Action)
			r.Post("/{id}/edit", h.CommitEdit)
			r.Delete("/{id}/edit", h.CancelEdit)
			r.Post("/{id}/save", h.SaveSession)
		})

		r.Get("/agents", h.ListAgents)
	})

	return router
}
