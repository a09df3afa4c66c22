package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func serveLogged(t *testing.T, handler http.HandlerFunc, req *http.Request) string {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	wrapped := chimw.RequestID(RequestLogger(logger)(handler))
	wrapped.ServeHTTP(httptest.NewRecorder(), req)
	return buf.String()
}

func TestRequestLogger(t *testing.T) {
	t.Run("Logs Request Identity And Outcome", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/trades", nil)
		req.Header.Set("X-User-ID", "alice")

		out := serveLogged(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}, req)

		assert.Contains(t, out, "request completed")
		assert.Contains(t, out, "method=GET")
		assert.Contains(t, out, "path=/trades")
		assert.Contains(t, out, "status=200")
		assert.Contains(t, out, "user_id=alice")
		assert.Contains(t, out, "request_id=")
	})

	t.Run("Server Errors Log At Error Level", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/trades", nil)

		out := serveLogged(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, req)

		assert.Contains(t, out, "level=ERROR")
		assert.Contains(t, out, "request failed")
		assert.NotContains(t, out, "user_id=")
	})
}
