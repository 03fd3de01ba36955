package records

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
	"github.com/clinicdesk/clinicdesk/internal/platform/renderer"
	"github.com/clinicdesk/clinicdesk/pkg/pagination"
)

type Handler struct {
	svc        *Service
	dispatcher *renderer.Dispatcher
}

func NewHandler(svc *Service, dispatcher *renderer.Dispatcher) *Handler {
	return &Handler{svc: svc, dispatcher: dispatcher}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	frontdesk := api.Group("", auth.RequireRole("admin", "frontdesk"))
	frontdesk.POST("/patients", h.CreatePatient)
	frontdesk.GET("/patients", h.ListPatients)
	frontdesk.GET("/patients/:id", h.GetPatient)
	frontdesk.PUT("/patients/:id", h.UpdatePatient)
	frontdesk.POST("/patients/:id/documents/:purpose", h.IssuePatientDocument)

	billing := api.Group("", auth.RequireRole("admin", "billing"))
	billing.POST("/invoices", h.CreateInvoice)
	billing.GET("/invoices/:id", h.GetInvoice)
	billing.GET("/patients/:id/invoices", h.ListPatientInvoices)
	billing.POST("/invoices/:id/documents/invoice", h.IssueInvoiceDocument)
}

// -- Patients --

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePatient(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdatePatient(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatients(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Invoices --

func (h *Handler) CreateInvoice(c echo.Context) error {
	var inv Invoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateInvoice(c.Request().Context(), &inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) GetInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.GetInvoice(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) ListPatientInvoices(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListInvoicesByPatient(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Document call paths --

// issuanceResponse wraps the assembler result with the renderer delivery
// outcomes so the UI can tell the user when no renderer picked the job up.
type issuanceResponse struct {
	Issuance   interface{} `json:"issuance"`
	Deliveries interface{} `json:"deliveries,omitempty"`
}

func (h *Handler) IssuePatientDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	purpose := c.Param("purpose")
	action := c.QueryParam("action")
	if action == "" {
		action = ActionDownload
	}
	rid, _ := c.Get("request_id").(string)

	iss, err := h.svc.IssuePatientDocument(c.Request().Context(), id, purpose, action, rid)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Rendering is the caller's side of the contract; a failed delivery
	// does not roll the counter back.
	deliveries := h.dispatcher.Dispatch(c.Request().Context(), purpose, action, iss)
	return c.JSON(http.StatusOK, issuanceResponse{Issuance: iss, Deliveries: deliveries})
}

func (h *Handler) IssueInvoiceDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	action := c.QueryParam("action")
	if action == "" {
		action = ActionDownload
	}
	rid, _ := c.Get("request_id").(string)

	iss, err := h.svc.IssueInvoiceDocument(c.Request().Context(), id, action, rid)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	deliveries := h.dispatcher.Dispatch(c.Request().Context(), PurposeInvoice, action, iss)
	return c.JSON(http.StatusOK, issuanceResponse{Issuance: iss, Deliveries: deliveries})
}
