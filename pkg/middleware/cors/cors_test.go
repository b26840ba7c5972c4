package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func request(origins []string, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/students", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/students", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/students", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAllowAllWithoutCredentials(t *testing.T) {
	w := request(nil, http.MethodGet, "https://campus.example")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAllowListedOrigin(t *testing.T) {
	origins := []string{"https://campus.example/"}
	w := request(origins, http.MethodGet, "https://campus.example")
	assert.Equal(t, "https://campus.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = request(origins, http.MethodGet, "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPreflightShortCircuits(t *testing.T) {
	w := request(nil, http.MethodOptions, "https://campus.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
