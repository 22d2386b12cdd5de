package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/board-be/internal/api/handlers"
	"github.com/isdelr/board-be/internal/apperr"
	"github.com/isdelr/board-be/internal/auth"
	"github.com/isdelr/board-be/internal/config"
	"github.com/isdelr/board-be/internal/monitoring"
	"github.com/isdelr/board-be/internal/services"
	"github.com/isdelr/board-be/internal/websocket"
)

// Deps are the collaborators the router wires into its handlers.
type Deps struct {
	Config   *config.Config
	DB       monitoring.Pinger
	Probes   handlers.ProbeReporter
	Hub      *websocket.Hub
	Users    services.UserServiceProvider
	Auth     services.AuthServiceProvider
	Posts    services.PostServiceProvider
	Comments services.CommentServiceProvider
	Events   services.EventServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger())
	r.Use(recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondError(w, r, apperr.NotFound(fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path)))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondError(w, r, apperr.MethodNotAllowed(fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path)))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Users, deps.Config.JWTExpiry, deps.Config.IsProduction())
	userHandler := handlers.NewUserHandler(deps.Users)
	postHandler := handlers.NewPostHandler(deps.Posts)
	commentHandler := handlers.NewCommentHandler(deps.Comments)
	eventHandler := handlers.NewEventHandler(deps.Events)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Probes)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.Posts, deps.Config.CORSAllowedOrigins)

	requireAuth := auth.Middleware(deps.Auth, handlers.RespondError)

	r.Get("/health", healthHandler.Check)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.With(requireAuth).Get("/me", authHandler.Me)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", userHandler.GetAll)
			r.Get("/{id}", userHandler.Get)
			r.Patch("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.GetAll)
		r.Get("/{id}", postHandler.Get)
		r.Get("/{id}/live", wsHandler.Serve)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", postHandler.Create)
			r.Get("/me", postHandler.GetMine)
			r.Patch("/{id}", postHandler.Update)
			r.Delete("/{id}", postHandler.Delete)
		})
	})

	r.Route("/comments", func(r chi.Router) {
		r.Get("/", commentHandler.GetAll)
		r.Get("/{id}", commentHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", commentHandler.Create)
			r.Patch("/{id}", commentHandler.Update)
			r.Delete("/{id}", commentHandler.Delete)
		})
	})

	r.With(requireAuth).Get("/events", eventHandler.GetRecent)
	r.With(requireAuth).Get("/protected/hello", authHandler.Hello)

	return r
}
