package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRegistrar struct {
	mount func(rg *gin.RouterGroup)
}

func (s *stubRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	s.mount(rg)
}

func billingRegistrar(resource string) *stubRegistrar {
	return &stubRegistrar{mount: func(rg *gin.RouterGroup) {
		g := rg.Group("/" + resource)
		g.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"resource": resource})
		})
		g.POST("", func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
	}}
}

func TestRouter_Setup(t *testing.T) {
	t.Run("mounts registrars under versioned prefix", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)
		r.Register(billingRegistrar("customers"))
		r.Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "customers")
	})

	t.Run("honours a custom API version", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, WithAPIVersion("v2"))
		r.Register(billingRegistrar("customers"))
		r.Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v2/customers", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("chains multiple registrars onto one group", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)
		r.Register(billingRegistrar("customers")).
			Register(billingRegistrar("sales-bills")).
			Register(billingRegistrar("collections"))
		r.Setup()

		for _, path := range []string{
			"/api/v1/customers",
			"/api/v1/sales-bills",
			"/api/v1/collections",
		} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, path, nil)
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("registrar methods keep their verbs", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)
		r.Register(billingRegistrar("collections"))
		r.Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/collections", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodDelete, "/api/v1/collections", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("setup with no registrars leaves the engine empty", func(t *testing.T) {
		engine := gin.New()
		NewRouter(engine).Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
