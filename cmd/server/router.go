package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lingua-api/internal/api"
	apiMiddleware "github.com/phrazzld/lingua-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	deckHandler := api.NewDeckHandler(app.cardService, app.logger)
	cardHandler := api.NewCardHandler(app.reviewService, app.cardService, app.logger)
	progressHandler := api.NewProgressHandler(app.progressService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/decks", deckHandler.CreateDeck)
			r.Post("/decks/{id}/cards", deckHandler.CreateCard)

			r.Get("/cards/due", cardHandler.GetDueCards)
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Post("/cards/{id}/review", cardHandler.SubmitReview)
			r.Delete("/cards/{id}", cardHandler.DeleteCard)

			r.Get("/progress", progressHandler.GetProgress)
			r.Get("/progress/vocabulary/review", progressHandler.GetVocabularyReview)
			r.Post("/progress/vocabulary", progressHandler.RecordVocabulary)
			r.Post("/progress/rules/{skill}", progressHandler.RecordRule)
			r.Post("/progress/quiz", progressHandler.RecordQuiz)
		})
	})

	return r
}

// handleHealth reports whether the database is reachable.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.db != nil {
		if err := app.db.PingContext(r.Context()); err != nil {
			app.logger.Error("Health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("Failed to write health check response", "error", err)
	}
}
