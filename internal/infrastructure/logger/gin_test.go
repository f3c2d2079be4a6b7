package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serveBilling routes one request through the middleware stack and returns
// the recorded entries alongside the response.
func serveBilling(t *testing.T, level zapcore.Level, handler gin.HandlerFunc, req *http.Request) (*observer.ObservedLogs, *httptest.ResponseRecorder) {
	t.Helper()
	core, recorded := observer.New(level)
	engine := gin.New()
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET("/api/v1/customers", handler)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return recorded, w
}

func requestEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			return entry
		}
	}
	t.Fatal("no HTTP Request entry recorded")
	return observer.LoggedEntry{}
}

func TestGinMiddleware(t *testing.T) {
	t.Run("successful request logs at info with the standard fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?page=2", nil)
		recorded, w := serveBilling(t, zapcore.InfoLevel, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"data": []string{}})
		}, req)

		assert.Equal(t, http.StatusOK, w.Code)
		entry := requestEntry(t, recorded)
		assert.Equal(t, zapcore.InfoLevel, entry.Level)

		fields := entry.ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/api/v1/customers", fields["path"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.Equal(t, "page=2", fields["query"])
		assert.Contains(t, fields, "latency")
		assert.Contains(t, fields, "client_ip")
	})

	t.Run("carries the request ID set upstream", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		engine := gin.New()
		engine.Use(func(c *gin.Context) {
			c.Set("request_id", "req-billing-7")
			c.Next()
		})
		engine.Use(GinMiddleware(zap.New(core)))
		engine.GET("/api/v1/customers", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil))

		entry := requestEntry(t, recorded)
		assert.Equal(t, "req-billing-7", entry.ContextMap()["request_id"])
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		recorded, _ := serveBilling(t, zapcore.WarnLevel, func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		}, req)

		entry := requestEntry(t, recorded)
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
	})

	t.Run("server errors log at error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		recorded, _ := serveBilling(t, zapcore.ErrorLevel, func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
		}, req)

		entry := requestEntry(t, recorded)
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	})
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	engine := gin.New()
	engine.Use(Recovery(zap.New(core)))
	engine.GET("/api/v1/customers", func(c *gin.Context) {
		panic("ledger gone sideways")
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Panic recovered", entries[0].Message)
	assert.Equal(t, "/api/v1/customers", entries[0].ContextMap()["path"])
}

func TestGetGinLogger(t *testing.T) {
	t.Run("returns the request-scoped logger", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		engine := gin.New()
		engine.Use(GinMiddleware(zap.New(core)))
		engine.GET("/api/v1/customers", func(c *gin.Context) {
			GetGinLogger(c).Info("creating customer")
			c.Status(http.StatusCreated)
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil))

		var found bool
		for _, entry := range recorded.All() {
			if entry.Message == "creating customer" {
				found = true
				assert.Equal(t, "/api/v1/customers", entry.ContextMap()["path"])
			}
		}
		assert.True(t, found)
	})

	t.Run("falls back to a no-op logger outside the middleware", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		log := GetGinLogger(c)
		require.NotNil(t, log)
		log.Info("must not panic")
	})
}
