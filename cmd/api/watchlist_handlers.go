package main

import (
	"errors"
	"net/http"

	"cinelist/proj/internal/services/watchlist"
)

func (app *Application) addToWatchlist(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractMovieID(w, r)
	if !ok {
		return
	}
	entry, err := app.watchlist.Add(r.Context(), app.contextGetUser(r).Email, id)
	if err != nil {
		switch {
		case errors.Is(err, watchlist.ErrMovieNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, watchlist.ErrDuplicateEntry):
			app.Http.Conflict(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"entry": entry}, "Movie added to watchlist")
}

func (app *Application) listWatchlist(w http.ResponseWriter, r *http.Request) {
	list, err := app.watchlist.List(r.Context(), app.contextGetUser(r).Email)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": list}, "")
}

func (app *Application) removeFromWatchlist(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractMovieID(w, r)
	if !ok {
		return
	}
	if err := app.watchlist.Remove(r.Context(), app.contextGetUser(r).Email, id); err != nil {
		if errors.Is(err, watchlist.ErrEntryNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r)
}
