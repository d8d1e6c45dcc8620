package activities

import (
	"errors"
	"net/http"

	"formatech/internal/pkg/logger"
	"formatech/internal/pkg/response"
	"formatech/internal/pkg/validator"
	"formatech/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activities", h.List)
	rg.GET("/activities/recent", h.Recent)
	rg.POST("/activities", h.Create)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if fields := validator.Validate(q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}
	list, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		logger.Error(c.Request.Context(), "list activities", "error", err)
		response.Internal(c, "Failed to load activities")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) Recent(c *gin.Context) {
	list, err := h.service.Recent(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "recent activities", "error", err)
		response.Internal(c, "Failed to load activities")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	a, err := h.service.Create(c.Request.Context(), req)
	switch {
	case err == nil:
		response.Success(c, http.StatusCreated, a)
	case errors.Is(err, ErrDealNotFound):
		response.NotFound(c, "Deal not found")
	case errors.Is(err, repository.ErrInvalidReference):
		response.BadRequest(c, "Unknown user")
	default:
		logger.Error(c.Request.Context(), "create activity", "error", err)
		response.Internal(c, "Failed to create activity")
	}
}
