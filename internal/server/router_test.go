package server

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

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/txtpresence/internal/server/hub"
	"github.com/iudanet/txtpresence/internal/server/middleware"
	"github.com/iudanet/txtpresence/internal/server/storage/sqlite"
	"github.com/iudanet/txtpresence/pkg/api"
)

func startServer(t *testing.T, burst int) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)

	h := hub.New(store, nil, logger)
	limiter := middleware.NewRateLimiter(0.001, burst, logger)

	srv := httptest.NewServer(NewRouter(RouterConfig{
		Logger:  logger,
		Storage: store,
		Relay:   h,
		Rooms:   h,
		Limiter: limiter,
		Version: "test",
	}))
	t.Cleanup(func() {
		h.Close()
		srv.Close()
		limiter.Stop()
		_ = store.Close()
	})
	return srv
}

func createDocument(t *testing.T, srv *httptest.Server, text string) (*http.Response, api.DocumentResponse) {
	t.Helper()
	body, err := json.Marshal(api.CreateDocumentRequest{Text: text})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/v1/documents", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var doc api.DocumentResponse
	if resp.StatusCode == http.StatusCreated {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	}
	return resp, doc
}

func TestRouter_DocumentLifecycle(t *testing.T) {
	srv := startServer(t, 5)

	resp, created := createDocument(t, srv, "hello")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	got, err := http.Get(srv.URL + "/api/v1/documents/" + created.Locator)
	require.NoError(t, err)
	defer func() { _ = got.Body.Close() }()
	require.Equal(t, http.StatusOK, got.StatusCode)

	var doc api.DocumentResponse
	require.NoError(t, json.NewDecoder(got.Body).Decode(&doc))
	assert.Equal(t, created.Locator, doc.Locator)
	assert.Equal(t, "hello", doc.Text)

	conn, wsResp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/"+created.Locator+"?peer=alice", nil)
	require.NoError(t, err)
	_ = wsResp.Body.Close()
	defer func() { _ = conn.Close() }()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f api.Frame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, api.FrameSnapshot, f.Type)
	assert.Equal(t, "hello", f.Text)

	health, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer func() { _ = health.Body.Close() }()

	var hr api.HealthResponse
	require.NoError(t, json.NewDecoder(health.Body).Decode(&hr))
	assert.Equal(t, "ok", hr.Status)
	assert.Equal(t, "test", hr.Version)
	assert.Equal(t, 1, hr.Rooms)
}

func TestRouter_CreateIsRateLimited(t *testing.T) {
	srv := startServer(t, 2)

	for i := 0; i < 2; i++ {
		resp, _ := createDocument(t, srv, "")
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, _ := createDocument(t, srv, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Чтение документов не ограничивается
	health, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	_ = health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv := startServer(t, 1)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/documents", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
