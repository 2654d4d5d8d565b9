package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/expertzappdev/bizfree-backend/pkg/logger"
	"github.com/expertzappdev/bizfree-backend/pkg/metrics"
)

// RequestLogger asigna un X-Request-ID (o respeta el recibido) y registra
// cada petición al terminar. Los 5xx van como error.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(fiber.HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, reqID)

		err := c.Next()

		status := c.Response().StatusCode()
		reqLog := log.WithRequest(reqID, GetUserID(c))
		var ev *zerolog.Event
		if status >= fiber.StatusInternalServerError || err != nil {
			ev = reqLog.Error().Err(err)
		} else {
			ev = reqLog.Info()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}

// RateLimit token bucket por IP de cliente. Los buckets sin uso durante ttl se
// descartan en el siguiente barrido.
func RateLimit(perMinute, burst int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	type bucket struct {
		lim *rate.Limiter
		ts  time.Time
	}
	var (
		mu        sync.Mutex
		buckets   = make(map[string]*bucket)
		ttl       = 5 * time.Minute
		lastSweep = time.Now()
	)
	every := rate.Every(time.Minute / time.Duration(perMinute))

	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			ip = "unknown"
		}
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > time.Minute {
			for k, b := range buckets {
				if now.Sub(b.ts) > ttl {
					delete(buckets, k)
				}
			}
			lastSweep = now
		}
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{lim: rate.NewLimiter(every, burst)}
			buckets[ip] = b
		}
		b.ts = now
		allowed := b.lim.Allow()
		mu.Unlock()

		if !allowed {
			return fail(c, fiber.StatusTooManyRequests, CodeRateLimited, "demasiadas solicitudes, intenta más tarde")
		}
		return c.Next()
	}
}

// Metrics registra conteo y latencia por método, ruta y estado.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		labels := []string{c.Method(), route, strconv.Itoa(status)}
		metrics.HTTPRequests.WithLabelValues(labels...).Inc()
		metrics.HTTPDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}
