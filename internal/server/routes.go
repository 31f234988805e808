package server

import (
	"github.com/OFFIS-RIT/catalog-graph/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	apiRoutes.POST("/convert", routes.ConvertHandler)
	apiRoutes.GET("/schema", routes.GetSchemaHandler)
	apiRoutes.POST("/jobs", routes.CreateJobHandler)
}
