package routes

import (
	"encoding/json"
	"net/http"

	"github.com/OFFIS-RIT/catalog-graph/internal/queue"
	"github.com/OFFIS-RIT/catalog-graph/internal/server/middleware"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CreateJobHandler enqueues a conversion of a catalog stored in S3.
func CreateJobHandler(c echo.Context) error {
	type createJobResponse struct {
		Message string            `json:"message"`
		Job     *queue.ConvertMsg `json:"job,omitempty"`
	}

	app := c.(*middleware.AppContext).App
	if app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, createJobResponse{Message: "Queue not configured"})
	}

	data := new(queue.ConvertMsg)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createJobResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createJobResponse{Message: "Invalid request body"})
	}

	body, err := json.Marshal(data)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createJobResponse{Message: "Internal server error"})
	}
	if err := queue.PublishFIFO(app.Queue, queue.ConvertQueue, body); err != nil {
		logger.Error("[Server] Failed to publish job", "err", err)
		return c.JSON(http.StatusInternalServerError, createJobResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, createJobResponse{Message: "Job queued", Job: data})
}
