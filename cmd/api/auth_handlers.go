package main

import (
	"errors"
	"fmt"
	"net/http"

	"cinelist/proj/internal/lib/hasher"
	"cinelist/proj/internal/services/auth"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// readCredentials bounds the password in bytes, the unit bcrypt limits.
func (app *Application) readCredentials(w http.ResponseWriter, r *http.Request, req *credentialsRequest) bool {
	if !app.readValidJSON(w, r, req) {
		return false
	}
	if len(req.Password) > hasher.MaxPasswordLength {
		app.Http.UnprocessableEntity(w, r, map[string]string{
			"password": fmt.Sprintf("Password must not exceed %d bytes", hasher.MaxPasswordLength),
		})
		return false
	}
	return true
}

func (app *Application) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !app.readCredentials(w, r, &req) {
		return
	}
	user, err := app.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrIdentityExists) {
			app.Http.Conflict(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"email": user.Email}, "User registered successfully")
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !app.readCredentials(w, r, &req) {
		return
	}
	token, err := app.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			app.Http.Unauthorized(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"access_token": token.AccessToken, "token_type": token.TokenType}, "")
}

func (app *Application) me(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{"email": app.contextGetUser(r).Email}, "")
}
