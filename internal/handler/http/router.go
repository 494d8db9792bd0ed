package http

import (
	"log/slog"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/handler/http/middleware"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

const requestTimeout = 30 * time.Second

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, authHandler AuthHandler, directoryHandler DirectoryHandler, birthdayHandler BirthdayHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	admin := middleware.Admin(JWTService)
	if !JWTService.Enabled() {
		slog.Warn("JWT secret not set; admin routes are open")
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(requestTimeout))

			r.Get("/", directoryHandler.List)
			r.Get("/stats", directoryHandler.Stats)
			r.Get("/search-all", directoryHandler.SearchAll)
			r.Get("/lookup", directoryHandler.Lookup)
			r.Get("/export", directoryHandler.Export)
			r.Get("/validate/{cfmsId}", directoryHandler.ValidateCFMSID)
			r.Get("/{id}", directoryHandler.Get)
			r.Get("/{id}/profile", directoryHandler.Profile)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/", directoryHandler.Add)
				r.Delete("/remove/{cfmsId}", directoryHandler.Remove)
			})
		})

		r.Route("/birthday", func(r chi.Router) {
			r.Get("/today", birthdayHandler.Today)

			r.With(admin).Post("/send", birthdayHandler.Send)
		})
	})
	return r
}
