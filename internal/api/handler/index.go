package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Index handles GET /.
//
// @Summary      Service banner
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func Index(c echo.Context) error {
	return c.String(http.StatusOK, "Catalog API is running")
}
