package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cors(origins))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func requestFrom(router http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/health", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORSEchoesListedOrigin(t *testing.T) {
	router := corsRouter("https://vibali.go.tz", "https://admin.vibali.go.tz")

	w := requestFrom(router, http.MethodGet, "https://admin.vibali.go.tz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://admin.vibali.go.tz", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))

	w = requestFrom(router, http.MethodGet, "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcard(t *testing.T) {
	w := requestFrom(corsRouter("*"), http.MethodGet, "https://anywhere.example")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Emblem")
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestCORSPreflight(t *testing.T) {
	w := requestFrom(corsRouter("https://vibali.go.tz"), http.MethodOptions, "https://vibali.go.tz")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://vibali.go.tz", w.Header().Get("Access-Control-Allow-Origin"))
}
