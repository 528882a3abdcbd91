package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"thumbgen/internal/logging"
	"thumbgen/internal/metrics"
)

func TestStatusRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	rec := newStatusRecorder(w)

	if rec.statusCode != http.StatusOK {
		t.Errorf("default status = %d, want 200", rec.statusCode)
	}

	rec.WriteHeader(http.StatusNotFound)
	rec.WriteHeader(http.StatusInternalServerError)
	if rec.statusCode != http.StatusNotFound {
		t.Errorf("status = %d, want first WriteHeader to win", rec.statusCode)
	}

	n, err := rec.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if rec.bytesWritten != 5 {
		t.Errorf("bytesWritten = %d, want 5", rec.bytesWritten)
	}
	if rec.Unwrap() != w {
		t.Error("Unwrap() did not return the wrapped writer")
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "/api/batch", "/api/batch"},
		{"newline", "a\nb", "a b"},
		{"carriage return", "a\r\nb", "a  b"},
		{"null", "a\x00b", "ab"},
		{"ansi", "\x1b[31mred", "[31mred"},
		{"tab kept", "a\tb", "a\tb"},
		{"delete", "a\x7fb", "ab"},
		{"unicode", "größe", "größe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogField(tt.in); got != tt.want {
				t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeW3CField(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"curl/8.0", "curl/8.0"},
		{"Mozilla/5.0 (X11)", `"Mozilla/5.0 (X11)"`},
		{`say "hi"`, `"say ""hi"""`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := escapeW3CField(tt.in); got != tt.want {
				t.Errorf("escapeW3CField(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:5", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.9"}, "1.2.3.4:5", "10.0.0.9"},
		{"remote addr", nil, "192.168.1.7:51234", "192.168.1.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShouldSkip(t *testing.T) {
	cfg := DefaultLoggingConfig()
	if !shouldSkip("/metrics", cfg) {
		t.Error("/metrics should be skipped")
	}
	if shouldSkip("/healthz", cfg) {
		t.Error("/healthz logged by default")
	}
	cfg.LogHealthChecks = false
	if !shouldSkip("/healthz", cfg) {
		t.Error("/healthz should be skipped when health check logging is off")
	}
	if shouldSkip("/api/batch", cfg) {
		t.Error("/api/batch should not be skipped")
	}
}

func TestFormatW3C(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/batch?x=1", nil)
	r.RemoteAddr = "127.0.0.1:9999"
	r.Header.Set("User-Agent", "thumb test")

	w := httptest.NewRecorder()
	rec := newStatusRecorder(w)
	rec.Header().Set(BatchIDHeader, "abc")
	rec.WriteHeader(http.StatusCreated)
	_, _ = rec.Write([]byte("0123456789"))

	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	got := formatW3C(now, r, rec, 42*time.Millisecond)
	want := `2024-05-06 07:08:09 127.0.0.1 POST /api/batch x=1 201 10 42 "thumb test" abc`
	if got != want {
		t.Errorf("formatW3C() =\n%q\nwant\n%q", got, want)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })

	h := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(BatchIDHeader, "batch-7")
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if line := buf.String(); !strings.Contains(line, " 418 ") || !strings.Contains(line, "batch-7") {
		t.Errorf("access log = %q", line)
	}

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if buf.Len() != 0 {
		t.Errorf("skipped path logged: %q", buf.String())
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Metrics(DefaultMetricsConfig()))
	router.HandleFunc("/api/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}).Methods(http.MethodGet)

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/things/{id}", "202")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/things/"+id, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("requests recorded = %v, want 3", got)
	}
}

func TestCompression(t *testing.T) {
	wrap, err := Compression(DefaultCompressionConfig())
	if err != nil {
		t.Fatalf("Compression() error = %v", err)
	}

	body := []byte(`{"data":"` + strings.Repeat("x", 4096) + `"}`)
	serve := func(contentType, acceptEncoding string) *httptest.ResponseRecorder {
		h := wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", contentType)
			_, _ = w.Write(body)
		}))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if acceptEncoding != "" {
			r.Header.Set("Accept-Encoding", acceptEncoding)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	t.Run("json compressed", func(t *testing.T) {
		w := serve("application/json", "gzip")
		if w.Header().Get("Content-Encoding") != "gzip" {
			t.Fatalf("Content-Encoding = %q, want gzip", w.Header().Get("Content-Encoding"))
		}
		gr, err := gzip.NewReader(w.Body)
		if err != nil {
			t.Fatalf("gzip.NewReader() error = %v", err)
		}
		got, err := io.ReadAll(gr)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if !bytes.Equal(got, body) {
			t.Error("decompressed body mismatch")
		}
	})

	t.Run("zip passthrough", func(t *testing.T) {
		w := serve("application/zip", "gzip")
		if w.Header().Get("Content-Encoding") != "" {
			t.Error("archive response was compressed")
		}
		if !bytes.Equal(w.Body.Bytes(), body) {
			t.Error("body altered")
		}
	})

	t.Run("no accept encoding", func(t *testing.T) {
		w := serve("application/json", "")
		if w.Header().Get("Content-Encoding") != "" {
			t.Error("compressed without Accept-Encoding")
		}
	})
}
