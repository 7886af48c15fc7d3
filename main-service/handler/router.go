package handler

import (
	"net/http"

	redisclient "flightlink/shared/redis"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Routes(app *fiber.App) {
	app.Get("/", FormHandler)

	app.Route("/search", func(router fiber.Router) {
		router.Post("/", FlightSearchHandler)
		router.Get("/:search_id", SearchResultHandler)
		router.Get("/:search_id/export", ExportHandler)
		router.Get("/:search_id/events", SSEHandler)
	})

	app.Get("/healthz", HealthHandler)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func HealthHandler(c *fiber.Ctx) error {
	if err := redisclient.Ping(c.UserContext()); err != nil {
		return errorResponse(c, http.StatusServiceUnavailable, "Redis unavailable", "UNHEALTHY", err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "ok"})
}
