// Package http provides the REST server for the surrogate.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maliksaad1/ai-surrogate/internal/service"
	v1 "github.com/maliksaad1/ai-surrogate/internal/transport/http/v1"
)

// NewServer creates and configures the REST server. It carries the full
// external API: threads, messages, memory, tools, health, and metrics.
func NewServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	v1Handler.RegisterRoutes(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
