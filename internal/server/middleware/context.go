package middleware

import (
	"github.com/OFFIS-RIT/catalog-graph/internal/queue"
	"github.com/OFFIS-RIT/catalog-graph/pkg/graph"

	"github.com/labstack/echo/v4"
)

// App holds the dependencies shared by all handlers. Queue is nil when the
// server runs without a broker.
type App struct {
	Graph *graph.GraphClient
	Queue queue.Publisher
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
