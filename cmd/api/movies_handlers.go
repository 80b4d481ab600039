package main

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"cinelist/proj/internal/domain/filters"
	"cinelist/proj/internal/lib/validator"
	"cinelist/proj/internal/services/movies"

	"github.com/go-chi/chi/v5"
)

type createMovieRequest struct {
	Title       string   `json:"title" validate:"required,max=500"`
	Year        string   `json:"year" validate:"omitempty,numeric,len=4" errorMsg:"Year must be a four digit number"`
	Imdb        string   `json:"imdb" validate:"omitempty,max=500"`
	Movie       string   `json:"movie" validate:"omitempty,max=2048"`
	Trailer     string   `json:"trailer" validate:"omitempty,max=2048"`
	Poster      string   `json:"poster" validate:"omitempty,max=2048"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	Language    string   `json:"language" validate:"omitempty,max=100"`
	Genre       []string `json:"genre" validate:"required,min=1,unique" errorMsg:"Provide at least one distinct genre"`
	DirectedBy  string   `json:"directed_by" validate:"omitempty,max=200"`
}

type updateMovieRequest struct {
	Title       *string  `json:"title" validate:"omitnil,min=1,max=500"`
	Year        *string  `json:"year" validate:"omitnil,numeric,len=4" errorMsg:"Year must be a four digit number"`
	Imdb        *string  `json:"imdb" validate:"omitnil,max=500"`
	Movie       *string  `json:"movie" validate:"omitnil,max=2048"`
	Trailer     *string  `json:"trailer" validate:"omitnil,max=2048"`
	Poster      *string  `json:"poster" validate:"omitnil,max=2048"`
	Description *string  `json:"description" validate:"omitnil,max=5000"`
	Language    *string  `json:"language" validate:"omitnil,max=100"`
	Genre       []string `json:"genre" validate:"omitnil,min=1,unique" errorMsg:"Provide at least one distinct genre"`
	DirectedBy  *string  `json:"directed_by" validate:"omitnil,max=200"`
}

func (app *Application) createMovie(w http.ResponseWriter, r *http.Request) {
	var req createMovieRequest
	if !app.readValidJSON(w, r, &req) {
		return
	}
	movie, err := app.movies.Create(r.Context(), movies.CreateParams{
		Title:       req.Title,
		Year:        req.Year,
		Imdb:        req.Imdb,
		Movie:       req.Movie,
		Trailer:     req.Trailer,
		Poster:      req.Poster,
		Description: req.Description,
		Language:    req.Language,
		Genre:       req.Genre,
		DirectedBy:  req.DirectedBy,
	}, app.contextGetUser(r).Email)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"movie": movie}, "Movie created successfully")
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractMovieID(w, r)
	if !ok {
		return
	}
	movie, err := app.movies.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "")
}

func (app *Application) listMovies(w http.ResponseWriter, r *http.Request) {
	f := filters.NewMovieFilters()
	if err := app.decoder.Decode(&f, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, f); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	list, err := app.movies.List(r.Context(), f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": list}, "")
}

func (app *Application) updateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractMovieID(w, r)
	if !ok {
		return
	}
	var req updateMovieRequest
	if !app.readValidJSON(w, r, &req) {
		return
	}
	movie, err := app.movies.Update(r.Context(), id, movies.UpdateParams{
		Title:       req.Title,
		Year:        req.Year,
		Imdb:        req.Imdb,
		Movie:       req.Movie,
		Trailer:     req.Trailer,
		Poster:      req.Poster,
		Description: req.Description,
		Language:    req.Language,
		Genre:       req.Genre,
		DirectedBy:  req.DirectedBy,
	})
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrMovieNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, movies.ErrEditConflict):
			app.Http.Conflict(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "Movie updated successfully")
}

func (app *Application) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractMovieID(w, r)
	if !ok {
		return
	}
	if err := app.movies.Delete(r.Context(), id); err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) searchMovies(w http.ResponseWriter, r *http.Request) {
	query, err := url.PathUnescape(chi.URLParam(r, "query"))
	if err != nil {
		app.Http.BadRequest(w, r, "invalid search query")
		return
	}
	query = strings.TrimSpace(query)
	if query == "" || len(query) > 200 {
		app.Http.UnprocessableEntity(w, r, map[string]string{"query": "Query must be between 1 and 200 characters"})
		return
	}
	params := filters.NewSearchParams()
	if err := app.decoder.Decode(&params, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, params); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	found, err := app.movies.Search(r.Context(), query, params.Limit)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": found}, "")
}
