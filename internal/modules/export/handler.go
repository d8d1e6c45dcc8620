package export

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"formatech/internal/modules/deals"
	"formatech/internal/pipeline"
	"formatech/internal/pkg/logger"
	"formatech/internal/pkg/response"
	"formatech/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

const maxImportSize = 5 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	e := rg.Group("/export")
	e.GET("/deals", h.Deals)
	e.GET("/contacts", h.Contacts)
	e.GET("/companies", h.Companies)
	e.POST("/import/contacts", h.ImportContacts)
	e.POST("/import/companies", h.ImportCompanies)
}

func (h *Handler) Deals(c *gin.Context) {
	var q deals.ListDealsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if fields := validator.Validate(q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}
	var buf bytes.Buffer
	err := h.service.ExportDeals(c.Request.Context(), q, &buf)
	h.sendCSV(c, "deals_export.csv", &buf, err)
}

func (h *Handler) Contacts(c *gin.Context) {
	var buf bytes.Buffer
	err := h.service.ExportContacts(c.Request.Context(), &buf)
	h.sendCSV(c, "contacts_export.csv", &buf, err)
}

func (h *Handler) Companies(c *gin.Context) {
	var buf bytes.Buffer
	err := h.service.ExportCompanies(c.Request.Context(), &buf)
	h.sendCSV(c, "companies_export.csv", &buf, err)
}

func (h *Handler) ImportContacts(c *gin.Context) {
	var req ContactImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}
	res, err := h.service.ImportContacts(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ImportCompanies accepts either a multipart "file" field or the raw CSV as the body.
func (h *Handler) ImportCompanies(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	var src io.Reader = c.Request.Body
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(c, "Unreadable file")
			return
		}
		defer f.Close()
		src = f
	}

	res, err := h.service.ImportCompanies(c.Request.Context(), src)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) sendCSV(c *gin.Context, filename string, buf *bytes.Buffer, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) fail(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Import file is too large")
	case errors.Is(err, ErrInvalidFile):
		response.BadRequest(c, err.Error())
	case errors.Is(err, pipeline.ErrUnknownStage), errors.Is(err, deals.ErrValidation):
		response.BadRequest(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "export request failed", "path", c.FullPath(), "error", err)
		response.Internal(c, "Internal server error")
	}
}
