package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quill",
		Name:      "redis_errors_total",
		Help:      "Number of Redis command errors.",
	}, []string{"command"})

	// AuthEvents counts security pipeline outcomes by audit event kind.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quill",
		Name:      "auth_events_total",
		Help:      "Number of authentication events by kind.",
	}, []string{"event"})
)

var (
	promOnce sync.Once
	promMW   *fiberprometheus.FiberPrometheus
)

// RegisterMetrics attaches the HTTP metrics middleware and exposes the
// scrape endpoint at /metrics. The underlying collectors register with the
// process-wide default registry, so they are created only once even when
// several apps are built in one process.
func RegisterMetrics(app *fiber.App, serviceName string) {
	promOnce.Do(func() {
		promMW = fiberprometheus.New(serviceName)
	})
	promMW.RegisterAt(app, "/metrics")
	app.Use(promMW.Middleware)
}
