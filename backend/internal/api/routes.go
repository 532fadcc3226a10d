// ============================================================================
// backend/internal/api/routes.go
// Router setup, middleware, and endpoint wiring
// ============================================================================

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"resultanalyzer/backend/internal/api/handlers"
	"resultanalyzer/backend/internal/api/util"
	"resultanalyzer/backend/internal/auth"
	"resultanalyzer/backend/internal/shared"
	"resultanalyzer/backend/internal/store"
)

// Deps carries the services the router hands to its handlers.
type Deps struct {
	Auth   *auth.Service
	Store  *store.Store
	Config *shared.ServerConfig
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(deps *Deps) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS Configuration (Allow React Frontend)
	corsCfg := deps.Config.CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   corsCfg.AllowedMethods,
		AllowedHeaders:   corsCfg.AllowedHeaders,
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := handlers.NewAuthHandler(deps.Auth)
	uploadHandler := handlers.NewUploadHandler(deps.Store, deps.Config.Analyzer)
	analysisHandler := handlers.NewAnalysisHandler(deps.Store, deps.Config.Analyzer)
	adminHandler := handlers.NewAdminHandler(deps.Store)

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---
		r.Post("/auth/login", authHandler.Login)

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(deps.Auth))

			// Auth (Authenticated Only)
			r.Get("/auth/validate", authHandler.Validate)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			// Gradesheet Uploads
			r.Route("/uploads", func(r chi.Router) {
				r.Get("/", uploadHandler.List)
				r.Post("/", uploadHandler.Create)
				r.Get("/{id}", uploadHandler.Get)
				r.Delete("/{id}", uploadHandler.Delete)
				r.Get("/{id}/rows", uploadHandler.Rows)
			})

			// Analysis
			r.Route("/analysis", func(r chi.Router) {
				r.Post("/detention", analysisHandler.Detention)
				r.Post("/performance", analysisHandler.Performance)
				r.Post("/progression", analysisHandler.Progression)
			})

			// Admin Management
			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireRole("admin"))
				r.Get("/stats", adminHandler.Stats)
			})
		})
	})

	return r
}

// AuthMiddleware creates a middleware that validates JWT tokens and injects
// the claims into the request context.
func AuthMiddleware(service *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			claims, err := service.ValidateToken(tokenStr)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), util.ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route subtree on the authenticated user's role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := util.ClaimsFrom(r)
			if claims == nil || claims.Role != role {
				util.WriteJSONError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
