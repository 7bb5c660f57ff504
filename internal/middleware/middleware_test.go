package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success", http.StatusOK, "level=INFO"},
		{"not found", http.StatusNotFound, "level=WARN"},
		{"server error", http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			handler := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/get-product/1", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("expected %s in %q", tt.wantLevel, out)
			}
			if !strings.Contains(out, "path=/api/get-product/1") {
				t.Errorf("expected path in %q", out)
			}
		})
	}
}

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	m := NewMetrics("test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/get-product/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	for _, path := range []string{"/get-product/1", "/get-product/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body, _ := io.ReadAll(w.Body)
	want := `test_http_requests_total{method="GET",route="/get-product/{id}",status="4xx"} 2`
	if !strings.Contains(string(body), want) {
		t.Errorf("expected %q in metrics output", want)
	}
}
