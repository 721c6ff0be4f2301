package internal

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"trafficlens/internal/http"
)

// apiCORSConfig is the CORS setup for the read-only dashboard API. The API
// serves aggregate data only, so cross-origin reads are safe to allow.
var apiCORSConfig = cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept",
}

// MountAppRoutes mounts all application routes
func MountAppRoutes(srv *fiber.App, app *Application) {
	// Health check endpoint
	srv.Get("/_health", http.HealthIndexAction)
	srv.Head("/_health", http.HealthIndexAction)

	api := srv.Group("/api/v1", cors.New(apiCORSConfig))

	api.Get("/connection-test", http.ConnectionTestAction(app.Client))

	// Full snapshot, queried on demand for an arbitrary range
	api.Get("/dashboard", http.DashboardIndexAction(app.Client, app.Logger))

	// Poller-backed live view and manual refresh
	api.Get("/dashboard/live", http.DashboardLiveAction(app.Poller))
	api.Post("/dashboard/refresh", http.DashboardRefreshAction(app.Poller))

	// Individual panels
	api.Get("/dashboard/metrics", http.MetricsIndexAction(app.Client, app.Logger))
	api.Get("/dashboard/trends", http.TrendsIndexAction(app.Client, app.Logger))
	api.Get("/dashboard/top-pages", http.TopPagesIndexAction(app.Client, app.Logger))
	api.Get("/dashboard/devices", http.DevicesIndexAction(app.Client, app.Logger))
	api.Get("/dashboard/traffic-sources", http.TrafficSourcesIndexAction(app.Client, app.Logger))
}
