package models

import (
	"time"
)

type Movie struct {
	ID          string    `json:"id" db:"id"`                   // Opaque identifier assigned by the store on creation
	Title       string    `json:"title" db:"title"`             // Movie title
	Year        string    `json:"year" db:"year"`               // Release year as entered (e.g. "1999")
	Imdb        string    `json:"imdb" db:"imdb"`               // External rating reference
	Movie       string    `json:"movie" db:"movie"`             // Media reference
	Trailer     string    `json:"trailer" db:"trailer"`         // Trailer reference
	Poster      string    `json:"poster" db:"poster"`           // Poster reference
	Description string    `json:"description" db:"description"` // Plot summary
	Language    string    `json:"language" db:"language"`       // Primary spoken language
	Genre       []string  `json:"genre" db:"genre"`             // One or more genre tags
	DirectedBy  string    `json:"directed_by" db:"directed_by"` // Director
	AddedBy     string    `json:"-" db:"added_by"`              // Email of the identity that created the record
	Version     uint      `json:"version" db:"version"`         // Starts at 1, incremented on every update
	CreatedAt   time.Time `json:"-" db:"created_at"`            // Timestamp for when the movie is added to the catalog
}

// User is an authenticated identity. Email is the natural key and is compared
// exactly as stored.
type User struct {
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

type WatchlistEntry struct {
	UserEmail string    `json:"user_email" db:"user_email"`
	MovieID   string    `json:"movie_id" db:"movie_id"`
	AddedAt   time.Time `json:"added_at" db:"added_at"`
}

type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
