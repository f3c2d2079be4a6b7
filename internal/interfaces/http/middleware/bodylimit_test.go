package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func postThrough(limit int64, handler gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.Use(BodyLimit(limit))
	engine.POST("/api/v1/sales-bills", handler)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestBodyLimit(t *testing.T) {
	okHandler := func(c *gin.Context) {
		c.Status(http.StatusOK)
	}

	t.Run("passes a body within the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales-bills",
			strings.NewReader(`{"customer_id":"abc"}`))
		w := postThrough(1024, okHandler, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a declared length over the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales-bills",
			strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = 200

		w := postThrough(100, okHandler, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("caps a body with no declared length", func(t *testing.T) {
		var readErr error
		handler := func(c *gin.Context) {
			_, readErr = io.ReadAll(c.Request.Body)
			if readErr != nil {
				c.Status(http.StatusBadRequest)
				return
			}
			c.Status(http.StatusOK)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales-bills",
			strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1

		w := postThrough(50, handler, req)

		assert.Error(t, readErr)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bodyless requests pass untouched", func(t *testing.T) {
		engine := gin.New()
		engine.Use(BodyLimit(10))
		engine.GET("/api/v1/customers", okHandler)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
