package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name. Incremented by
// the cache package's client hook.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reelcorps_redis_errors_total",
	Help: "Total number of Redis errors by command",
}, []string{"command"})

// RateLimitRejections counts requests rejected by the fixed-window limiter,
// labeled by the resource being throttled.
var RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reelcorps_rate_limit_rejections_total",
	Help: "Total number of rate limited requests by resource",
}, []string{"resource"})

// InitMetrics creates the fiberprometheus middleware for HTTP-level metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
