package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestGetIdempotencyKey_IsReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if k, ok := GetIdempotencyKey(c); k != "" || ok {
		t.Fatalf("expected empty key when not set")
	}
	if IsReplay(c) {
		t.Fatalf("expected IsReplay=false by default")
	}
	c.Set(ctxKeyIdemKey, 123)
	if _, ok := GetIdempotencyKey(c); ok {
		t.Fatalf("non-string key must read as absent")
	}
	c.Set(ctxKeyIdemReplay, true)
	if !IsReplay(c) {
		t.Fatalf("expected IsReplay=true")
	}
	c.Set(ctxKeyIdemReplay, "yes")
	if IsReplay(c) {
		t.Fatalf("non-bool replay flag must read as false")
	}
}

func TestIdempotencyValidator_SafeMethodIgnoresHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	called := false
	r.Use(IdempotencyValidator(IdempotencyOptions{}, func(context.Context, string, string, string, time.Time) (bool, error) {
		called = true
		return true, nil
	}))
	r.GET("/protocols", func(c *gin.Context) {
		if _, ok := GetIdempotencyKey(c); ok {
			t.Fatalf("GET must not stash a key")
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protocols", nil)
	req.Header.Set(HeaderIdempotencyKey, "abc")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent || called {
		t.Fatalf("status=%d lookupCalled=%v", w.Code, called)
	}
}

func TestIdempotencyValidator_InvalidKey(t *testing.T) {
	cases := []struct {
		name string
		opts IdempotencyOptions
		key  string
	}{
		{"too long", IdempotencyOptions{MaxLen: 5}, "abcdef"},
		{"pattern", IdempotencyOptions{Pattern: regexp.MustCompile(`^[0-9]+$`)}, "abc"},
		{"default pattern", IdempotencyOptions{}, "has space"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(IdempotencyValidator(tc.opts, nil))
			r.POST("/protocols", func(c *gin.Context) { c.Status(http.StatusCreated) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/protocols", nil)
			req.Header.Set(HeaderIdempotencyKey, tc.key)
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["code"] != "bad_idempotency_key" {
				t.Fatalf("unexpected body: %v", body)
			}
		})
	}
}

func TestIdempotencyValidator_LookupArgsAndReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var gotUser, gotScope, gotKey string
	r.Use(UserID())
	r.Use(IdempotencyValidator(IdempotencyOptions{}, func(_ context.Context, userID, scope, key string, _ time.Time) (bool, error) {
		gotUser, gotScope, gotKey = userID, scope, key
		return true, nil
	}))
	r.POST("/api/v1/protocols", func(c *gin.Context) {
		k, _ := GetIdempotencyKey(c)
		c.JSON(http.StatusOK, gin.H{"key": k, "replay": IsReplay(c), "bypass": IsRateBypass(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/protocols", nil)
	req.Header.Set(HeaderIdempotencyKey, "7a8d9f4c-1b2a")
	req.Header.Set(HeaderUserID, "u1")
	r.ServeHTTP(w, req)

	if gotUser != "u1" || gotScope != "POST /api/v1/protocols" || gotKey != "7a8d9f4c-1b2a" {
		t.Fatalf("lookup args: %q %q %q", gotUser, gotScope, gotKey)
	}
	var body struct {
		Key    string `json:"key"`
		Replay bool   `json:"replay"`
		Bypass bool   `json:"bypass"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Key != "7a8d9f4c-1b2a" || !body.Replay || !body.Bypass {
		t.Fatalf("unexpected flags: %+v", body)
	}
}

func TestIdempotencyValidator_LookupErrorIsNotReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{}, func(context.Context, string, string, string, time.Time) (bool, error) {
		return true, errors.New("db down")
	}))
	r.POST("/protocols", func(c *gin.Context) {
		if IsReplay(c) {
			t.Fatalf("failed lookup must not mark a replay")
		}
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/protocols", nil)
	req.Header.Set(HeaderIdempotencyKey, "k1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
}

func TestIdempotencyScope_FallsBackToURLPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodDelete, "/unrouted", nil)
	if got := IdempotencyScope(c); got != "DELETE /unrouted" {
		t.Fatalf("got %q", got)
	}
}
