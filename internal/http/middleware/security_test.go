package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func serveSecurity(t *testing.T, opt SecurityOptions, pre gin.HandlerFunc, req *http.Request) http.Header {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if pre != nil {
		r.Use(pre)
	}
	r.Use(SecurityHeaders(opt))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Header()
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	h := serveSecurity(t, SecurityOptions{}, nil, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if h.Get("X-Content-Type-Options") != "nosniff" ||
		h.Get("X-Frame-Options") != "DENY" ||
		h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("baseline headers missing: %#v", h)
	}
	if h.Get("Cache-Control") != DefaultCacheControl {
		t.Fatalf("Cache-Control = %q", h.Get("Cache-Control"))
	}
	if h.Get("Permissions-Policy") != "" || h.Get("Strict-Transport-Security") != "" {
		t.Fatalf("unexpected optional headers: %#v", h)
	}
	if h.Get("Access-Control-Expose-Headers") != "X-Request-ID" {
		t.Fatalf("expose = %q", h.Get("Access-Control-Expose-Headers"))
	}
}

func TestSecurityHeaders_ExposeMerge(t *testing.T) {
	pre := func(c *gin.Context) {
		c.Header("Access-Control-Expose-Headers", "x-request-id, Content-Length")
		c.Next()
	}
	opt := SecurityOptions{Expose: []string{"ETag", "Retry-After", "etag"}}
	h := serveSecurity(t, opt, pre, httptest.NewRequest(http.MethodGet, "/ok", nil))

	got := h.Get("Access-Control-Expose-Headers")
	if got != "x-request-id, Content-Length, ETag, Retry-After" {
		t.Fatalf("got %q", got)
	}
}

func TestSecurityHeaders_CacheControl(t *testing.T) {
	h := serveSecurity(t, SecurityOptions{CacheControl: "-"}, nil, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if h.Get("Cache-Control") != "" {
		t.Fatalf("disabled Cache-Control was set: %q", h.Get("Cache-Control"))
	}

	pre := func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=60")
		c.Next()
	}
	h = serveSecurity(t, SecurityOptions{}, pre, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if h.Get("Cache-Control") != "public, max-age=60" {
		t.Fatalf("existing Cache-Control overwritten: %q", h.Get("Cache-Control"))
	}
}

func TestSecurityHeaders_PolicyAndHSTS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.TLS = &tls.ConnectionState{}
	h := serveSecurity(t, SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour, EnablePolicy: true}, nil, req)

	if h.Get("Permissions-Policy") == "" || h.Get("X-Permitted-Cross-Domain-Policies") != "none" {
		t.Fatalf("missing policy headers: %#v", h)
	}
	if want := "max-age=86400; includeSubDomains; preload"; h.Get("Strict-Transport-Security") != want {
		t.Fatalf("HSTS = %q", h.Get("Strict-Transport-Security"))
	}
}

func TestSecurityHeaders_HSTSDefaultAgeBehindProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	h := serveSecurity(t, SecurityOptions{EnableHSTS: true}, nil, req)

	if got := h.Get("Strict-Transport-Security"); !strings.HasPrefix(got, "max-age=15552000;") {
		t.Fatalf("expected 180 day HSTS, got %q", got)
	}

	plain := serveSecurity(t, SecurityOptions{EnableHSTS: true}, nil, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if plain.Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be sent over plain HTTP")
	}
}
