package main

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

func (app *Application) root(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, struct {
		Message   string    `json:"message"`
		Version   string    `json:"version"`
		Timestamp time.Time `json:"timestamp"`
	}{
		Message:   "Cinelist API is running",
		Version:   version,
		Timestamp: time.Now().UTC(),
	})
}

func (app *Application) healthcheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, struct {
		Status  string `json:"status"`
		Debug   bool   `json:"debug"`
		Version string `json:"version"`
	}{
		Status:  "available",
		Debug:   app.cfg.Debug,
		Version: version,
	})
}
