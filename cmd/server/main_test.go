package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance-ledger/internal/auth"
	"finance-ledger/internal/config"
	"finance-ledger/internal/handlers"
	"finance-ledger/internal/log"
	"finance-ledger/internal/storage"
	"finance-ledger/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	// Setup dependencies
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	sessions := auth.NewSessionAuthority([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	h := handlers.NewHandlers(db, sessions, web.Templates(), false, log.Discard())

	// Create router - this panics if a routing conflict exists
	mux := setupRouter(h, web.Static(), nil)

	// Verify routes
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "Root redirects to login",
			method:     "GET",
			path:       "/",
			wantStatus: http.StatusFound,
		},
		{
			name:       "Static file access",
			method:     "GET",
			path:       "/static/style.css",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Login page renders",
			method:     "GET",
			path:       "/login",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Dashboard requires auth",
			method:     "GET",
			path:       "/dashboard",
			wantStatus: http.StatusFound, // Should redirect to login
		},
		{
			name:       "Transactions API requires auth",
			method:     "GET",
			path:       "/transactions",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Liveness",
			method:     "GET",
			path:       "/healthz",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code,
				"%s %s returned unexpected status", tt.method, tt.path)
		})
	}
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	return port
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := &config.Config{
		Port:          freePort(t),
		DBDriver:      "sqlite",
		DBPath:        ":memory:",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		SessionTTL:    time.Hour,
		LogLevel:      "error",
	}
	require.NoError(t, cfg.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, log.Discard()) }()

	url := "http://127.0.0.1:" + cfg.Port + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond, "server should come up")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
