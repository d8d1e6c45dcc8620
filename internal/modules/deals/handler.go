package deals

import (
	"errors"
	"net/http"

	"formatech/internal/pipeline"
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
	d := rg.Group("/deals")
	d.GET("", h.List)
	d.POST("", h.Create)
	d.GET("/:id", h.Get)
	d.PUT("/:id", h.Update)
	d.DELETE("/:id", h.Delete)
	d.PUT("/:id/stage", h.ChangeStage)
	d.PUT("/:id/qualification", h.UpdateQualification)
	d.PUT("/:id/demo", h.UpdateDemo)
	d.PUT("/:id/proposal", h.UpdateProposal)
	d.PUT("/:id/negotiation", h.UpdateNegotiationAmount)
	d.POST("/:id/negotiation", h.AddNegotiationEntry)
	d.PUT("/:id/won", h.MarkWon)
	d.PUT("/:id/lost", h.MarkLost)
}

func (h *Handler) List(c *gin.Context) {
	var q ListDealsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if fields := validator.Validate(q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}
	deals, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, deals)
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
	var req CreateDealRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, d)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateDealRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	h.respond(c, d, err)
}

func (h *Handler) ChangeStage(c *gin.Context) {
	var req ChangeStageRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.ChangeStage(c.Request.Context(), c.Param("id"), req)
	h.respond(c, d, err)
}

func (h *Handler) UpdateQualification(c *gin.Context) {
	var req QualificationRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.UpdateQualification(c.Request.Context(), c.Param("id"), req)
	h.respond(c, d, err)
}

func (h *Handler) UpdateDemo(c *gin.Context) {
	var req DemoRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.UpdateDemo(c.Request.Context(), c.Param("id"), req)
	h.respond(c, d, err)
}

func (h *Handler) UpdateProposal(c *gin.Context) {
	var req ProposalRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.UpdateProposal(c.Request.Context(), c.Param("id"), req)
	h.respond(c, d, err)
}

func (h *Handler) UpdateNegotiationAmount(c *gin.Context) {
	var req NegotiationAmountRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.UpdateNegotiationAmount(c.Request.Context(), c.Param("id"), req)
	h.respond(c, d, err)
}

func (h *Handler) AddNegotiationEntry(c *gin.Context) {
	var req NegotiationEntryRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.AddNegotiationEntry(c.Request.Context(), c.Param("id"), req)
	h.respond(c, d, err)
}

func (h *Handler) MarkWon(c *gin.Context) {
	var req WonRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.MarkWon(c.Request.Context(), c.Param("id"), req)
	h.respond(c, d, err)
}

func (h *Handler) MarkLost(c *gin.Context) {
	var req LostRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.MarkLost(c.Request.Context(), c.Param("id"), req)
	h.respond(c, d, err)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c)
}

func (h *Handler) respond(c *gin.Context, data any, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, data)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "Deal not found")
	case errors.Is(err, pipeline.ErrInvalidTransition):
		response.Error(c, http.StatusBadRequest, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, pipeline.ErrUnknownStage),
		errors.Is(err, pipeline.ErrScoreOutOfRange),
		errors.Is(err, ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrInvalidReference):
		response.BadRequest(c, "Unknown company, contact or user")
	default:
		logger.Error(c.Request.Context(), "deal request failed", "error", err)
		response.Internal(c, "Failed to process deal")
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
