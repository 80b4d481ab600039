package watchlist

import "errors"

var (
	ErrMovieNotFound  = errors.New("movie not found")
	ErrDuplicateEntry = errors.New("movie is already in the watchlist")
	ErrEntryNotFound  = errors.New("movie is not in the watchlist")
)
