package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// AnimationsCreated counts animations built, by shape.
	AnimationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clusteranim",
		Subsystem: "animation",
		Name:      "created_total",
		Help:      "Total marker animations created",
	}, []string{"shape"})

	// AnimationsEnded counts animations that finished or were cancelled, by shape.
	AnimationsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clusteranim",
		Subsystem: "animation",
		Name:      "ended_total",
		Help:      "Total marker animations that ended",
	}, []string{"shape"})

	// MarkerUpdateFailures counts marker moves that failed and were skipped.
	MarkerUpdateFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clusteranim",
		Subsystem: "animation",
		Name:      "marker_update_failures_total",
		Help:      "Total marker position updates that failed during a frame",
	})

	// CommandsReceived counts MQTT commands by outcome: applied, rejected, invalid or dropped.
	CommandsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clusteranim",
		Subsystem: "stream",
		Name:      "commands_received_total",
		Help:      "Total animation commands received",
	}, []string{"outcome"})

	// FramesPublished counts frames sent to the frames topic.
	FramesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clusteranim",
		Subsystem: "stream",
		Name:      "frames_published_total",
		Help:      "Total marker frames published",
	})
)

// Handler returns a Fiber handler serving the Prometheus metrics.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
