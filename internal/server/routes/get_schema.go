package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/catalog-graph/pkg/store/jsonfile"

	"github.com/labstack/echo/v4"
)

// GetSchemaHandler returns the JSON schema of the requested output format.
func GetSchemaHandler(c echo.Context) error {
	format, err := jsonfile.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid format"})
	}
	schema, err := jsonfile.Schema(format)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}
	return c.JSONBlob(http.StatusOK, schema)
}
