package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSafeHeader(t *testing.T) {
	engine := gin.New()
	engine.Use(SafeHeader())
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestSizeLimit_RejectsOversizedBody(t *testing.T) {
	engine := gin.New()
	engine.Use(SizeLimit(16))
	engine.POST("/upload", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	big := strings.Repeat("a", 64*1024)
	req, _ := http.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString(big))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSizeLimit_AllowsSmallBody(t *testing.T) {
	engine := gin.New()
	engine.Use(SizeLimit(1024))
	engine.POST("/upload", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req, _ := http.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString("small payload"))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_TooManyRequests(t *testing.T) {
	engine := gin.New()
	engine.Use(RateLimiterMiddleware(2))
	engine.GET("/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	var lastCode int
	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/limited", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}
