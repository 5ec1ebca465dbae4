package handler

import (
	"net/http"

	"github.com/ecotrack/gamification/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type BadgeHandler struct {
	catalog *service.BadgeCatalogService
	errs    errorWriter
}

func NewBadgeHandler(catalog *service.BadgeCatalogService, log *zap.Logger) *BadgeHandler {
	return &BadgeHandler{catalog: catalog, errs: newErrorWriter(log)}
}

// List returns the catalog with each badge's configured threshold.
func (h *BadgeHandler) List(c echo.Context) error {
	list, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"badges": list})
}
