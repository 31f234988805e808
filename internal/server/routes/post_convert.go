package routes

import (
	"io"
	"net/http"

	"github.com/OFFIS-RIT/catalog-graph/internal/server/middleware"
	"github.com/OFFIS-RIT/catalog-graph/pkg/loader"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store/jsonfile"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Message string `json:"message"`
}

// ConvertHandler converts an uploaded catalog file (multipart field "file")
// and responds with the encoded graph document. The optional "format" form
// or query value selects the output format.
func ConvertHandler(c echo.Context) error {
	format, err := jsonfile.ParseFormat(c.FormValue("format"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid format"})
	}

	upload, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Missing file"})
	}
	f, err := upload.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid file"})
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid file"})
	}

	rows, err := loader.ParseRows(content, loader.DetectFileType(upload.Filename))
	if err != nil {
		logger.Warn("[Server] Failed to parse upload", "file", upload.Filename, "err", err)
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Message: err.Error()})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	doc, report, err := app.Graph.ProcessGraph(ctx, loader.NewSliceSource(rows))
	if err != nil {
		logger.Error("[Server] Conversion failed", "file", upload.Filename, "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}

	body, err := jsonfile.EncodeBytes(doc, format)
	if err != nil {
		logger.Error("[Server] Failed to encode graph", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}

	c.Response().Header().Set("X-Run-Id", report.RunID)
	contentType := echo.MIMEApplicationJSON
	if format == jsonfile.FormatLines {
		contentType = "application/x-ndjson"
	}
	return c.Blob(http.StatusOK, contentType, body)
}
