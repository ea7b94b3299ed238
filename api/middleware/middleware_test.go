package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"

	"poolshop_server/structs"
)

func newTestMiddleware(rl *structs.RateLimitConfig) *Middleware {
	cfg := &structs.Config{
		Cors:      &structs.CorsConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: rl,
	}
	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	return NewMiddleware(cfg, logger)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimitMiddleware(t *testing.T) {
	mw := newTestMiddleware(&structs.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2})
	h := mw.RateLimitMiddleware()(okHandler)

	send := func(path, ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, send("/admin/orders", "203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, send("/admin/orders", "203.0.113.7").Code)

	limited := send("/admin/orders", "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	// Other clients and health checks are not affected
	assert.Equal(t, http.StatusOK, send("/admin/orders", "198.51.100.2").Code)
	assert.Equal(t, http.StatusOK, send("/health/server", "203.0.113.7").Code)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	mw := newTestMiddleware(&structs.RateLimitConfig{Enabled: false, RPS: 0.001, Burst: 1})
	h := mw.RateLimitMiddleware()(okHandler)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/CMD-2606-AAAAA", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	mw := newTestMiddleware(&structs.RateLimitConfig{})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:51234"
	assert.Equal(t, "192.0.2.10", mw.getClientIP(r))

	r.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", mw.getClientIP(r))

	r.Header.Set("X-Real-IP", "192.0.2.20")
	assert.Equal(t, "192.0.2.20", mw.getClientIP(r))

	r.Header.Set("X-Forwarded-For", " 198.51.100.4 , 10.0.0.1")
	assert.Equal(t, "198.51.100.4", mw.getClientIP(r))
}

func TestSecurityHeadersAndBodyLimit(t *testing.T) {
	mw := newTestMiddleware(&structs.RateLimitConfig{})
	var readErr error
	h := mw.SecurityHeaders()(mw.BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		for readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
		w.WriteHeader(http.StatusOK)
	})))

	// Unknown length: the limit trips while reading
	r := httptest.NewRequest(http.MethodPost, "/admin/products/import", strings.NewReader("0123456789abcdef"))
	r.ContentLength = -1
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)

	// Declared length over the limit is refused up front
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders/checkout", strings.NewReader("0123456789abcdef")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))
}

func TestSecurityHeaders_ProductionSendsHSTS(t *testing.T) {
	mw := newTestMiddleware(&structs.RateLimitConfig{})
	mw.cfg.Server = &structs.ServerConfig{Environment: "production"}

	w := httptest.NewRecorder()
	mw.SecurityHeaders()(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")
}
