package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_LabelsByRegisteredRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/v1/protocols/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"protocol_number": "GLESP-2025-001"})
	})
	r.DELETE("/api/v1/protocols/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	const route = "/api/v1/protocols/:id"
	baseGet := testutil.ToFloat64(httpReqs.WithLabelValues("GET", route, "200"))
	baseDel := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", route, "204"))

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/protocols/"+id, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s -> %d", id, w.Code)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/protocols/a", nil))

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", route, "200")); got != baseGet+3 {
		t.Fatalf("GET counter = %v; want %v (ids must share one series)", got, baseGet+3)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", route, "204")); got != baseDel+1 {
		t.Fatalf("DELETE counter = %v; want %v", got, baseDel+1)
	}
	if got := testutil.ToFloat64(httpInflight); got != 0 {
		t.Fatalf("inflight = %v; want 0", got)
	}
}

func TestMetrics_UnmatchedPathsShareOneSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())

	base := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404"))
	before := testutil.CollectAndCount(httpReqs)
	for _, p := range []string{"/wp-login.php", "/.env", "/api/v1/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404")); got != base+3 {
		t.Fatalf("unmatched counter = %v; want %v", got, base+3)
	}
	if after := testutil.CollectAndCount(httpReqs); after > before+1 {
		t.Fatalf("series grew from %d to %d for unmatched paths", before, after)
	}
}

func TestMetrics_CountsIdempotentReplays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.POST("/api/v1/protocols", func(c *gin.Context) {
		if c.GetHeader(HeaderIdempotencyKey) == "seen" {
			c.Header(HeaderIdempotencyReplayed, "true")
		}
		c.JSON(http.StatusCreated, gin.H{"protocol_number": "GLESP-2025-001"})
	})

	const route = "/api/v1/protocols"
	base := testutil.ToFloat64(httpReplays.WithLabelValues(route))

	for _, key := range []string{"fresh", "seen", "seen"} {
		req := httptest.NewRequest(http.MethodPost, route, nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	if got := testutil.ToFloat64(httpReplays.WithLabelValues(route)); got != base+2 {
		t.Fatalf("replays = %v; want %v", got, base+2)
	}
}
