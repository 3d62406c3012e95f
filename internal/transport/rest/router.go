package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/casefile"
	"github.com/frahmantamala/records-management/internal/entry"
	"github.com/frahmantamala/records-management/internal/hashtag"
	"github.com/frahmantamala/records-management/internal/transport/middleware"
	"github.com/frahmantamala/records-management/internal/transport/swagger"
	"github.com/frahmantamala/records-management/internal/user"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Hashtag  *hashtag.Handler
	CaseFile *casefile.Handler
	Entry    *entry.Handler
}

// RegisterAllRoutes mounts the full API under /api/v1. Login, registration,
// and health stay public; everything else sits behind the auth middleware.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, handlers Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", handlers.Auth.Login)

		// Registration is open.
		r.Post("/users", handlers.User.Create)

		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.AuthMiddleware)

			pr.Delete("/auth/logout", handlers.Auth.Logout)
			pr.Post("/auth/logout", handlers.Auth.Logout)

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/", handlers.User.List)
				ur.Get("/me", handlers.User.Me)
				ur.Get("/active", handlers.User.Active)
				ur.Get("/{id}", handlers.User.Get)
				ur.Patch("/{id}", handlers.User.Update)
				ur.Put("/{id}", handlers.User.Update)
				ur.Delete("/{id}", handlers.User.Delete)
				ur.Post("/{id}/password", handlers.User.ChangePassword)
			})

			pr.Route("/hashtags", func(hr chi.Router) {
				hr.Get("/", handlers.Hashtag.List)
				hr.Post("/", handlers.Hashtag.Create)
				hr.Get("/active", handlers.Hashtag.Active)
				hr.Get("/{id}", handlers.Hashtag.Get)
				hr.Patch("/{id}", handlers.Hashtag.Update)
				hr.Put("/{id}", handlers.Hashtag.Update)
				hr.Delete("/{id}", handlers.Hashtag.Delete)
			})

			pr.Route("/case-files", func(cr chi.Router) {
				cr.Get("/", handlers.CaseFile.List)
				cr.Post("/", handlers.CaseFile.Create)
				cr.Get("/{id}", handlers.CaseFile.Get)
				cr.Patch("/{id}", handlers.CaseFile.Update)
				cr.Put("/{id}", handlers.CaseFile.Update)
				cr.Delete("/{id}", handlers.CaseFile.Delete)
				cr.Get("/{id}/entries", handlers.Entry.ListByCaseFile)
			})

			pr.Route("/entries", func(er chi.Router) {
				er.Get("/", handlers.Entry.List)
				er.Post("/", handlers.Entry.Create)
				er.Get("/{id}", handlers.Entry.Get)
				er.Patch("/{id}", handlers.Entry.Update)
				er.Put("/{id}", handlers.Entry.Update)
				er.Delete("/{id}", handlers.Entry.Delete)

				er.Get("/{id}/hashtags", handlers.Entry.ListHashtags)
				er.Post("/{id}/hashtags", handlers.Entry.AttachHashtag)
				er.Delete("/{id}/hashtags/{hashtagID}", handlers.Entry.DetachHashtag)

				er.Post("/{id}/photo", handlers.Entry.AttachPhoto)
			})

			pr.Route("/entry-hashtags", func(ar chi.Router) {
				ar.Get("/", handlers.Entry.ListAssociations)
				ar.Get("/{id}", handlers.Entry.GetAssociation)
				ar.Delete("/{id}", handlers.Entry.DeleteAssociation)
			})
		})
	})
}
