package issuance

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
	"github.com/clinicdesk/clinicdesk/pkg/pagination"
)

type Handler struct {
	svc *Tracker
}

func NewHandler(svc *Tracker) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "frontdesk", "billing"))
	readGroup.GET("/issuances", h.ListCounters)
	readGroup.GET("/issuances/:id", h.PeekCounter)

	// Reset restarts a counter series; the next copy goes out unmasked.
	writeGroup := api.Group("", auth.RequireRole("admin", "frontdesk"))
	writeGroup.DELETE("/issuances/:id", h.ResetCounter)
}

func (h *Handler) ListCounters(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) PeekCounter(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "document id is required")
	}
	count, err := h.svc.Peek(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"document_id": id,
		"count":       count,
		"masked_next": Masked(count + 1),
	})
}

func (h *Handler) ResetCounter(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "document id is required")
	}
	if err := h.svc.Reset(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
