package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/metrics"
)

const (
	slowRequestThreshold = 500 * time.Millisecond
	errorStatusFloor     = 400
)

// Logger records request metrics for every request but only logs slow or
// failed ones.
func Logger(logger zerolog.Logger) fiber.Handler {
	log := logger.With().Str("component", "http").Logger()
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(latency.Seconds())

		if shouldLog(status, latency) {
			ev := log.Info()
			if status >= 500 {
				ev = log.Error().Err(err)
			} else if status >= errorStatusFloor {
				ev = log.Warn()
			}
			ev.Int("status", status).
				Dur("latency", latency).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("request")
		}
		return err
	}
}

func shouldLog(status int, latency time.Duration) bool {
	return status >= errorStatusFloor || latency >= slowRequestThreshold
}
