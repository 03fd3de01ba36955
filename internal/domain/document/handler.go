package document

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/domain/issuance"
	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

type Handler struct {
	asm *Assembler
}

func NewHandler(asm *Assembler) *Handler {
	return &Handler{asm: asm}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "frontdesk", "billing"))
	g.POST("/documents/issue", h.IssueDocument)
}

// issueBody is the wire form of an issue request: either a pre-composed
// document_id or the subject/purpose/action triple it derives from.
type issueBody struct {
	DocumentID string  `json:"document_id"`
	SubjectID  string  `json:"subject_id"`
	Purpose    string  `json:"purpose"`
	Action     string  `json:"action"`
	ResetFirst bool    `json:"reset_first"`
	Fields     []Field `json:"fields"`
}

func (h *Handler) IssueDocument(c echo.Context) error {
	var body issueBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	docID := body.DocumentID
	if docID == "" {
		if body.SubjectID == "" || body.Purpose == "" || body.Action == "" {
			return echo.NewHTTPError(http.StatusBadRequest,
				"document_id or subject_id+purpose+action is required")
		}
		docID = issuance.DocumentID(body.SubjectID, body.Purpose, body.Action)
	}

	result, err := h.asm.Issue(c.Request().Context(), IssueRequest{
		DocumentID: docID,
		ResetFirst: body.ResetFirst,
		Fields:     body.Fields,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
