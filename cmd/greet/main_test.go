package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greet-service/internal/app"
	"github.com/greet-service/internal/config"
	"github.com/greet-service/internal/database"
)

func TestRouterEndToEnd(t *testing.T) {
	srv := httptest.NewServer(newRouter(&app.App{
		Users:   database.NewMemoryUserStore(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version: version,
	}))
	t.Cleanup(srv.Close)

	getMessage := func(t *testing.T) string {
		t.Helper()
		resp, err := http.Get(srv.URL + "/")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.Message
	}

	assert.Equal(t, "Hello, unknown stranger!", getMessage(t))

	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(`{"name":"Integration Test"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))

	assert.Equal(t, "Hello, Integration Test!", getMessage(t))

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, map[string]string{
		"status":  "healthy",
		"storage": "in-memory",
		"version": version,
	}, health)
}

func TestRouterUnknownMethod(t *testing.T) {
	r := newRouter(&app.App{Users: database.NewMemoryUserStore()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterAccessLogUsesSlog(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(&app.App{
		Users:  database.NewMemoryUserStore(),
		Logger: slog.New(slog.NewJSONHandler(&buf, nil)),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Contains(t, entry["msg"], "GET")
	assert.Contains(t, entry["msg"], "/health")
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := config.Config{
		HTTPAddr: "127.0.0.1:0",
		Redis: config.RedisConfig{
			Host:           "127.0.0.1",
			Port:           1,
			DB:             1,
			ConnectTimeout: 100 * time.Millisecond,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, logger) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("run did not return after cancel")
	}
}
