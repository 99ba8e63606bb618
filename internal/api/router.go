package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", apiHandler.HealthHandler)

		// Session-scoped routes (anonymous cookie sessions)
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.SessionMiddleware)

			// Generation routes
			r.Post("/study-guide", apiHandler.StudyGuideHandler)
			r.Post("/section-content", apiHandler.SectionContentHandler)
			r.Post("/regenerate-content", apiHandler.RegenerateContentHandler)

			// Progress ledger routes
			r.Post("/progress/update", apiHandler.ProgressUpdateHandler)
			r.Get("/progress/{topicHash}", apiHandler.GetProgressHandler)
		})
	})

	return r
}
