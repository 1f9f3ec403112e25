package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialite_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FollowMutations counts follow-graph mutations by kind and result.
	FollowMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialite_follow_mutations_total",
		Help: "Total number of follow/unfollow operations by result",
	}, []string{"operation", "result"})

	// ImageUploads counts profile-image uploads by result.
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialite_image_uploads_total",
		Help: "Total number of profile image uploads by result",
	}, []string{"result"})
)

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the fiberprometheus middleware for HTTP metrics. The
// underlying collectors register with the default registry exactly once, so
// repeated server construction (tests) reuses the same instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New(serviceName)
	})
	return promMiddleware
}

// RegisterMetrics attaches the Prometheus middleware and exposes the scrape
// endpoint on the app.
func RegisterMetrics(app *fiber.App, prom *fiberprometheus.FiberPrometheus, path string) {
	prom.RegisterAt(app, path)
	app.Use(prom.Middleware)
}
