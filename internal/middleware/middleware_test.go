package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriterCapturesStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK) // second call ignored

	if rw.statusCode != http.StatusTeapot {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusTeapot)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("recorder code = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestResponseWriterCountsBytes(t *testing.T) {
	t.Parallel()

	rw := newResponseWriter(httptest.NewRecorder())

	if _, err := rw.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := rw.Write([]byte(" world")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if rw.bytesWritten != 11 {
		t.Errorf("bytesWritten = %d, want 11", rw.bytesWritten)
	}
}

func TestSanitizeLogField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "GET", "GET"},
		{"newline replaced", "a\nb", "a b"},
		{"carriage return replaced", "a\rb", "a b"},
		{"null stripped", "a\x00b", "ab"},
		{"ansi escape stripped", "a\x1b[31mb", "a[31mb"},
		{"tab preserved", "a\tb", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogField(tt.input); got != tt.want {
				t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShouldSkip(t *testing.T) {
	t.Parallel()

	config := DefaultLoggingConfig()
	config.LogHealthChecks = false

	tests := []struct {
		path string
		want bool
	}{
		{"/api/movies", false},
		{"/health", true},
		{"/readyz", true},
		{"/static/app.js", true},
		{"/api/poster/some-movie", false},
	}

	for _, tt := range tests {
		if got := shouldSkip(tt.path, config); got != tt.want {
			t.Errorf("shouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/api/movies", "/api/movies"},
		{"/api/movies/blade-runner", "/api/movies/{key}"},
		{"/api/poster/blade-runner", "/api/poster/{key}"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "10.0.0.1:1234", "10.0.0.1"},
		{"x-forwarded-for single", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "10.0.0.1:1234", "1.2.3.4"},
		{"x-forwarded-for chain", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "10.0.0.1:1234", "1.2.3.4"},
		{"x-real-ip", map[string]string{"X-Real-IP": "9.9.9.9"}, "10.0.0.1:1234", "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := getClientIP(r); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoggerMiddlewarePassesThrough(t *testing.T) {
	t.Parallel()

	called := false
	handler := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies", nil))

	if !called {
		t.Error("inner handler not called")
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestMetricsMiddlewarePassesThrough(t *testing.T) {
	t.Parallel()

	handler := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rescan", nil))

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
}
