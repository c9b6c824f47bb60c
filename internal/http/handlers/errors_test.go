package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-protocol-backend/internal/services"
)

func TestFailService_RecordsServerCauses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err      error
		status   int
		recorded bool
	}{
		{services.ErrProtocolNotFound, http.StatusNotFound, false},
		{services.ErrDocumentTypeNotFound, http.StatusNotFound, false},
		{fmt.Errorf("wrapped: %w", services.ErrActivityNotFound), http.StatusNotFound, false},
		{services.ErrDocumentTypeExists, http.StatusConflict, false},
		{services.ErrAllocationConflict, http.StatusConflict, true},
		{services.ErrStoreTimeout, http.StatusGatewayTimeout, true},
		{services.ErrBackupDisabled, http.StatusNotImplemented, false},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		failService(c, tc.err)

		if w.Code != tc.status {
			t.Fatalf("%v: status=%d want %d", tc.err, w.Code, tc.status)
		}
		if got := len(c.Errors) > 0; got != tc.recorded {
			t.Fatalf("%v: recorded=%v want %v", tc.err, got, tc.recorded)
		}
	}
}
