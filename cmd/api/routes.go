package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		app.Http.Response(w, r, nil, "", http.StatusMethodNotAllowed)
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)

	router.Get("/", app.root)
	router.Get("/healthcheck", app.healthcheck)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", app.register)
		r.Post("/login", app.login)
		r.With(app.requireAuthenticatedUser).Get("/me", app.me)
	})
	router.Route("/movies", func(r chi.Router) {
		r.Get("/", app.listMovies)
		r.Get("/search/{query}", app.searchMovies)
		r.Get("/{id}", app.getMovie)
		r.Group(func(r chi.Router) {
			r.Use(app.requireAuthenticatedUser)
			r.Post("/", app.createMovie)
			r.Put("/{id}", app.updateMovie)
			r.Delete("/{id}", app.deleteMovie)
		})
	})
	router.Route("/watchlist", func(r chi.Router) {
		r.Use(app.requireAuthenticatedUser)
		r.Get("/", app.listWatchlist)
		r.Post("/{id}", app.addToWatchlist)
		r.Delete("/{id}", app.removeFromWatchlist)
	})
	return router
}
