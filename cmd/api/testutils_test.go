package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinelist/proj/internal/config"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test secret"

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{
			Secret:     testSecret,
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
		Storage:   config.Storage{Driver: config.DriverBadger},
		CORS:      config.CORS{AllowedOrigins: []string{"*"}},
		Watchlist: config.Watchlist{Workers: 1, QueueSize: 10},
		Search:    config.Search{CacheSize: 16, CacheTTL: time.Minute},
		Server:    config.Server{ShutdownTimeout: 5 * time.Second},
	}
}

// NewTestApplication wires an Application over an in-memory badger store.
// cfg may be nil.
func NewTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	storage, err := OpenStorage(context.Background(), cfg, log)
	require.NoError(t, err)
	app, err := NewApplication(cfg, log, storage)
	require.NoError(t, err)
	app.bgTasks.Run()
	t.Cleanup(func() {
		app.bgTasks.Shutdown(context.Background())
		storage.Close()
	})
	return app
}

type testResponse struct {
	Code    int
	Header  http.Header
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any, token string) testResponse {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := testResponse{Code: rec.Code, Header: rec.Header()}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), "body: %s", rec.Body.String())
	}
	return res
}
