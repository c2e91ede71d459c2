package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/gather/server/docs"
	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/observability"
	"github.com/gather/server/internal/services"
)

// Dependencies is everything the router needs. HTTPMetrics, Logger and
// LocalAssets are optional.
type Dependencies struct {
	DB            Pinger
	Users         *services.UserService
	Collections   *services.CollectionService
	Shares        *services.ShareService
	Notifications *services.NotificationService
	Works         *services.WorkService
	Avatars       *services.AvatarService
	Hub           *services.WebSocketHub
	LoginLimiter  middleware.RateLimiter

	HTTPMetrics    *observability.HTTPMetrics
	Logger         *observability.Logger
	AllowedOrigins []string

	// LocalAssets serves the local asset directory under AssetsPrefix
	LocalAssets  string
	AssetsPrefix string
}

// NewRouter wires every route of the API
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.TracingMiddleware())
	if deps.HTTPMetrics != nil {
		r.Use(observability.MetricsMiddleware(deps.HTTPMetrics))
	}
	logger := deps.Logger
	if logger == nil {
		logger = observability.GetLogger()
	}
	r.Use(observability.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, models.DomainError{Kind: models.KindNotFound, Message: "Route non trouvée"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteFailure(w, http.StatusMethodNotAllowed, "Méthode non autorisée", nil)
	})

	health := NewHealthHandler(deps.DB)
	auth := NewAuthHandler(deps.Users)
	users := NewUserHandler(deps.Users)
	collections := NewCollectionHandler(deps.Collections)
	shares := NewShareHandler(deps.Shares)
	notifications := NewNotificationHandler(deps.Notifications)
	works := NewWorkHandler(deps.Works)
	avatars := NewAvatarHandler(deps.Avatars)
	ws := NewWebSocketHandler(deps.Hub, deps.Users, deps.AllowedOrigins)

	requireAuth := middleware.RequireAuth(deps.Users)
	optionalAuth := middleware.OptionalAuth(deps.Users)

	r.Get("/health", health.HealthCheck)
	r.Get("/version", VersionHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Get("/ws", ws.HandleConnection)

	if deps.LocalAssets != "" {
		prefix := "/" + strings.Trim(deps.AssetsPrefix, "/")
		files := http.StripPrefix(prefix, http.FileServer(http.Dir(deps.LocalAssets)))
		r.Get(prefix+"/*", files.ServeHTTP)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.LoginLimiter != nil {
				r.Use(middleware.RateLimit(deps.LoginLimiter))
			}
			r.Post("/login", auth.Login)
		})
		r.With(requireAuth).Get("/me", auth.Me)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", users.Register)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.With(middleware.RequireRole(models.RoleAdmin, models.RoleModerator)).Get("/", users.List)
			r.Patch("/me", users.UpdateMe)
			r.Get("/{userId}", users.Get)
			r.With(middleware.RequireRole(models.RoleAdmin)).Patch("/{userId}/role", users.UpdateRole)
		})
	})

	r.Route("/collections", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", collections.List)
			r.Get("/{id}", collections.Get)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", collections.Create)
			r.Get("/me", collections.ListMine)
			r.Patch("/{id}", collections.Update)
			r.Delete("/{id}", collections.Delete)
			r.Post("/{id}/works", collections.AddWorks)
			r.Delete("/{id}/works", collections.RemoveWorks)
		})
	})

	r.Route("/shares", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", shares.Create)
		r.Get("/me", shares.ListMine)
		r.Get("/collection/{id}", shares.ListForCollection)
		r.Patch("/{id}/status", shares.UpdateStatus)
		r.Delete("/{id}", shares.Delete)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", notifications.List)
		r.Get("/unread", notifications.ListUnread)
		r.Get("/unread/count", notifications.CountUnread)
		r.Patch("/read-all", notifications.MarkAllRead)
		r.Patch("/{id}/read", notifications.MarkRead)
		r.Delete("/{id}", notifications.Delete)
	})

	r.Route("/upload", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/avatar", avatars.Upload)
		r.Delete("/avatar", avatars.Remove)
	})

	r.Route("/works", func(r chi.Router) {
		r.Get("/", works.List)
		r.Get("/{id}", works.Get)
	})

	return r
}
