// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the acting user. Authentication is out of scope for the
// registry; the caller identifies itself with the X-User-ID header and the
// value is recorded as created_by/updated_by and in the activity log.
package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderUserID carries the acting user.
	HeaderUserID = "X-User-ID"
	// userIDKey is the Gin context key under which the user ID is stored.
	userIDKey = "userID"
	// AnonymousUser is recorded when no X-User-ID is sent.
	AnonymousUser = "anonymous"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._@\-]{1,64}$`)

// UserID validates X-User-ID and stores it under the "userID" Gin key.
// Requests without the header act as AnonymousUser; malformed values are
// rejected with 400.
func UserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if uid == "" {
			uid = AnonymousUser
		} else if !userIDPattern.MatchString(uid) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_request",
				"message":    "invalid " + HeaderUserID,
			})
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// UserIDFrom returns the user resolved by UserID, falling back to the raw
// header and finally AnonymousUser.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader(HeaderUserID)); h != "" {
			return h
		}
	}
	return AnonymousUser
}
