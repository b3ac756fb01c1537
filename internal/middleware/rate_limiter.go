package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

type ventana struct {
	count int
	fin   time.Time
}

// limitador is a fixed-window request counter per client IP.
type limitador struct {
	mu      sync.Mutex
	limite  int
	periodo time.Duration
	ips     map[string]*ventana
}

func nuevoLimitador(limite int, periodo time.Duration) *limitador {
	l := &limitador{limite: limite, periodo: periodo, ips: make(map[string]*ventana)}
	go l.purgar()
	return l
}

// permitir counts one request for ip and reports whether it is within the limit.
func (l *limitador) permitir(ip string, ahora time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.ips[ip]
	if !ok || ahora.After(v.fin) {
		v = &ventana{fin: ahora.Add(l.periodo)}
		l.ips[ip] = v
	}
	v.count++
	return v.count <= l.limite, v.fin
}

// purgar drops expired windows so IPs that never return do not accumulate.
func (l *limitador) purgar() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for ahora := range ticker.C {
		l.mu.Lock()
		purgadas := 0
		for ip, v := range l.ips {
			if ahora.After(v.fin) {
				delete(l.ips, ip)
				purgadas++
			}
		}
		restantes := len(l.ips)
		l.mu.Unlock()
		if purgadas > 0 {
			log.Debug().Int("purgadas", purgadas).Int("restantes", restantes).Msg("rate limiter purgado")
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := nuevoLimitador(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.permitir(c.ClientIP(), time.Now()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter caps every client IP at limit requests per window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := nuevoLimitador(limit, window)
	return func(c *gin.Context) {
		ok, fin := l.permitir(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
