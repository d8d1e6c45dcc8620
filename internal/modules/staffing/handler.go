package staffing

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
	s := rg.Group("/staffing")

	s.GET("/trainers", h.ListTrainers)
	s.POST("/trainers", h.CreateTrainer)
	s.GET("/trainers/:id", h.GetTrainer)
	s.PUT("/trainers/:id", h.UpdateTrainer)
	s.DELETE("/trainers/:id", h.DeleteTrainer)

	s.GET("/needs", h.ListNeeds)
	s.POST("/needs", h.CreateNeed)
	s.GET("/needs/:id", h.GetNeed)
	s.PUT("/needs/:id", h.UpdateNeed)
	s.DELETE("/needs/:id", h.DeleteNeed)
	s.GET("/needs/:id/available-trainers", h.AvailableTrainers)
	s.POST("/needs/:id/assign", h.Assign)
	s.POST("/needs/:id/unassign", h.Unassign)
}

func (h *Handler) ListTrainers(c *gin.Context) {
	var f TrainerFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	list, err := h.service.ListTrainers(c.Request.Context(), f)
	h.respond(c, http.StatusOK, list, err)
}

func (h *Handler) GetTrainer(c *gin.Context) {
	t, err := h.service.GetTrainer(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, t, err)
}

func (h *Handler) CreateTrainer(c *gin.Context) {
	var req TrainerRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.service.CreateTrainer(c.Request.Context(), req)
	h.respond(c, http.StatusCreated, t, err)
}

func (h *Handler) UpdateTrainer(c *gin.Context) {
	var req TrainerRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.service.UpdateTrainer(c.Request.Context(), c.Param("id"), req)
	h.respond(c, http.StatusOK, t, err)
}

func (h *Handler) DeleteTrainer(c *gin.Context) {
	if err := h.service.DeleteTrainer(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c)
}

func (h *Handler) ListNeeds(c *gin.Context) {
	var f NeedFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if fields := validator.Validate(f); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}
	list, err := h.service.ListNeeds(c.Request.Context(), f)
	h.respond(c, http.StatusOK, list, err)
}

func (h *Handler) GetNeed(c *gin.Context) {
	n, err := h.service.GetNeed(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, n, err)
}

func (h *Handler) CreateNeed(c *gin.Context) {
	var req NeedRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.service.CreateNeed(c.Request.Context(), req)
	h.respond(c, http.StatusCreated, n, err)
}

func (h *Handler) UpdateNeed(c *gin.Context) {
	var req NeedRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.service.UpdateNeed(c.Request.Context(), c.Param("id"), req)
	h.respond(c, http.StatusOK, n, err)
}

func (h *Handler) DeleteNeed(c *gin.Context) {
	if err := h.service.DeleteNeed(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c)
}

func (h *Handler) AvailableTrainers(c *gin.Context) {
	list, err := h.service.AvailableTrainers(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, list, err)
}

func (h *Handler) Assign(c *gin.Context) {
	var req AssignRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.service.Assign(c.Request.Context(), c.Param("id"), req.TrainerID)
	h.respond(c, http.StatusOK, n, err)
}

func (h *Handler) Unassign(c *gin.Context) {
	n, err := h.service.Unassign(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, n, err)
}

func (h *Handler) respond(c *gin.Context, status int, data any, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, status, data)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTrainerNotFound):
		response.NotFound(c, "Trainer not found")
	case errors.Is(err, ErrNeedNotFound):
		response.NotFound(c, "Training need not found")
	case errors.Is(err, ErrTrainerUnavailable):
		response.Error(c, http.StatusBadRequest, "TRAINER_UNAVAILABLE", "Trainer is already assigned on that date")
	case errors.Is(err, ErrValidation):
		response.BadRequest(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "staffing request failed", "path", c.FullPath(), "error", err)
		response.Internal(c, "Failed to process staffing request")
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
