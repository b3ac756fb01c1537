package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLimitadorVentanaFija(t *testing.T) {
	l := &limitador{limite: 2, periodo: time.Minute, ips: make(map[string]*ventana)}
	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	ok, _ := l.permitir("10.0.0.1", t0)
	assert.True(t, ok)
	ok, _ = l.permitir("10.0.0.1", t0.Add(time.Second))
	assert.True(t, ok)
	ok, fin := l.permitir("10.0.0.1", t0.Add(2*time.Second))
	assert.False(t, ok)
	assert.Equal(t, t0.Add(time.Minute), fin)

	ok, _ = l.permitir("10.0.0.2", t0.Add(2*time.Second))
	assert.True(t, ok, "windows are per IP")

	ok, _ = l.permitir("10.0.0.1", t0.Add(61*time.Second))
	assert.True(t, ok, "a new window starts after the period")
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(1, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
