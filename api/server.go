package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/matt-g-everett/clusteranim/mapobj"
	"github.com/matt-g-everett/clusteranim/metrics"
	"github.com/matt-g-everett/clusteranim/stream"
)

// Api serves the placemarks, metrics and the map client over HTTP.
type Api struct {
	app        *fiber.App
	placemarks *mapobj.Collection
	log        *slog.Logger
}

// NewApi creates an Api serving placemarks.
func NewApi(placemarks *mapobj.Collection, log *slog.Logger) *Api {
	a := new(Api)
	a.placemarks = placemarks
	a.log = log

	a.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	a.app.Get("/markers", a.markers)
	a.app.Get("/metrics", metrics.Handler())
	a.app.Static("/", "client/dist")
	return a
}

func (a *Api) markers(c *fiber.Ctx) error {
	b, err := stream.NewFrame(a.placemarks).MarshalBinary()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(b)
}

// App returns the underlying fiber application.
func (a *Api) App() *fiber.App {
	return a.app
}

// Serve listens on addr until Shutdown is called.
func (a *Api) Serve(addr string) error {
	a.log.Info("listening", slog.String("addr", addr))
	return a.app.Listen(addr)
}

// Shutdown stops the server.
func (a *Api) Shutdown() error {
	return a.app.Shutdown()
}
