package companies

import (
	"errors"
	"net/http"

	"formatech/internal/pkg/logger"
	"formatech/internal/pkg/response"
	"formatech/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/companies", h.List)
	rg.GET("/companies/:id", h.Get)
	rg.POST("/companies", h.Create)
	rg.PUT("/companies/:id", h.Update)
	rg.DELETE("/companies/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	list, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

func (h *Handler) Create(c *gin.Context) {
	var req CompanyRequest
	if !bind(c, &req) {
		return
	}
	company, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, company)
}

func (h *Handler) Update(c *gin.Context) {
	var req CompanyRequest
	if !bind(c, &req) {
		return
	}
	company, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, company)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "Company not found")
	case errors.Is(err, ErrSirenDuplicate):
		response.ErrorWithDetails(c, http.StatusBadRequest, "DUPLICATE", "SIREN already exists", map[string]string{"siren": "unique"})
	default:
		logger.Error(c.Request.Context(), "company request failed", "error", err)
		response.Internal(c, "Failed to process company")
	}
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return false
	}
	if fields := validator.Validate(req); fields != nil {
		response.ValidationFailed(c, fields)
		return false
	}
	return true
}
