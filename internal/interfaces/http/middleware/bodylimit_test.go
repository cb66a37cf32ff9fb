package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// bodyLimitedEngine serves a route that drains the body and answers 400 when
// the read hit the cap.
func bodyLimitedEngine(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), BodyLimit(limit))
	r.POST("/stock/movements", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusBadRequest, "capped at %d", tooLarge.Limit)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/products/low-stock", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestBodyLimit(t *testing.T) {
	cases := []struct {
		name          string
		method, path  string
		body          string
		contentLength int64
		wantStatus    int
		wantBody      string
	}{
		{"declared body within limit", http.MethodPost, "/stock/movements", `{"quantity":"2"}`, 16, http.StatusNoContent, ""},
		{"declared body over limit", http.MethodPost, "/stock/movements", strings.Repeat("x", 65), 65, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE"},
		{"chunked body over limit", http.MethodPost, "/stock/movements", strings.Repeat("x", 100), -1, http.StatusBadRequest, "capped at 64"},
		{"bodyless GET", http.MethodGet, "/products/low-stock", "", 0, http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			req.ContentLength = tc.contentLength

			w := httptest.NewRecorder()
			bodyLimitedEngine(64).ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantBody != "" {
				assert.Contains(t, w.Body.String(), tc.wantBody)
			}
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}
