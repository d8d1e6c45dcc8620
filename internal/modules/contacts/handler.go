package contacts

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
	rg.GET("/contacts", h.List)
	rg.GET("/contacts/:id", h.Get)
	rg.POST("/contacts", h.Create)
	rg.PUT("/contacts/:id", h.Update)
	rg.DELETE("/contacts/:id", h.Delete)
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
	var req ContactRequest
	if !bind(c, &req) {
		return
	}
	contact, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, contact)
}

func (h *Handler) Update(c *gin.Context) {
	var req ContactRequest
	if !bind(c, &req) {
		return
	}
	contact, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, contact)
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
		response.NotFound(c, "Contact not found")
	case errors.Is(err, ErrUnknownCompany):
		response.ValidationFailed(c, map[string]string{"company_id": "exists"})
	default:
		logger.Error(c.Request.Context(), "contact request failed", "error", err)
		response.Internal(c, "Failed to process contact")
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
