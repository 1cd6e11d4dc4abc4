package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"livemusicnotes/internal/handler"
	"livemusicnotes/internal/httputil"
	"livemusicnotes/internal/metrics"
	appmw "livemusicnotes/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler   *handler.AuthHandler
	UserHandler   *handler.UserHandler
	VenueHandler  *handler.VenueHandler
	ArtistHandler *handler.ArtistHandler
	ShowHandler   *handler.ShowHandler
	NoteHandler   *handler.NoteHandler

	// MediaHandler is set only for the local storage backend.
	MediaHandler *handler.MediaHandler
	MediaPath    string

	JWTSecret string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogging())
	r.Use(appmw.Recovery())
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	if cfg.MediaHandler != nil {
		r.Get(cfg.MediaPath+"/*", cfg.MediaHandler.Serve)
	}

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	r.Get("/venues", cfg.VenueHandler.List)
	r.Get("/venues/{id}", cfg.VenueHandler.Get)
	r.Get("/venues/{id}/shows", cfg.VenueHandler.Shows)

	r.Get("/artists", cfg.ArtistHandler.List)
	r.Get("/artists/{id}", cfg.ArtistHandler.Get)
	r.Get("/artists/{id}/shows", cfg.ArtistHandler.Shows)

	r.Get("/shows/{id}", cfg.ShowHandler.Get)
	r.Get("/shows/{id}/notes", cfg.NoteHandler.ForShow)

	r.Get("/notes/latest", cfg.NoteHandler.Latest)
	r.Get("/notes/search", cfg.NoteHandler.Search)
	r.Get("/notes/{id}", cfg.NoteHandler.Get)

	r.Get("/users/{id}", cfg.UserHandler.GetProfile)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(appmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)
		r.Put("/me/profile", cfg.UserHandler.UpdateProfile)

		r.Post("/artists", cfg.ArtistHandler.Create)
		r.Post("/venues", cfg.VenueHandler.Create)
		r.Post("/shows", cfg.ShowHandler.Create)

		r.Post("/shows/{id}/notes", cfg.NoteHandler.Create)
		r.Put("/notes/{id}", cfg.NoteHandler.Update)
		r.Delete("/notes/{id}", cfg.NoteHandler.Delete)
	})

	return r
}
