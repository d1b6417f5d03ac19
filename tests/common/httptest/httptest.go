//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// executes HTTP request with an optional X-Sharer-User-Id caller header
func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, sharerID string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body to JSON")
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if sharerID != "" {
		req.Header.Set("X-Sharer-User-Id", sharerID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
