package filters

import "slices"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// MovieFilters narrows a catalog listing. Zero-value Genre and Language match everything.
type MovieFilters struct {
	Skip     int    `schema:"skip" validate:"gte=0"`
	Limit    int    `schema:"limit" validate:"gte=1,lte=100"`
	Genre    string `schema:"genre" validate:"omitempty,max=100"`
	Language string `schema:"language" validate:"omitempty,max=100"`
}

func NewMovieFilters() MovieFilters {
	return MovieFilters{Limit: DefaultLimit}
}

func (f *MovieFilters) Offset() int {
	return f.Skip
}

func (f *MovieFilters) Matches(language string, genres []string) bool {
	if f.Language != "" && f.Language != language {
		return false
	}
	if f.Genre != "" && !slices.Contains(genres, f.Genre) {
		return false
	}
	return true
}

type SearchParams struct {
	Limit int `schema:"limit" validate:"gte=1,lte=100"`
}

func NewSearchParams() SearchParams {
	return SearchParams{Limit: DefaultLimit}
}
