package stats

import (
	"errors"
	"net/http"

	"formatech/internal/pkg/logger"
	"formatech/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	s := rg.Group("/stats")
	s.GET("/dashboard", h.Dashboard)
	s.GET("/monthly-revenue", h.MonthlyRevenue)
	s.GET("/sources", h.Sources)
	s.GET("/user-performance", h.UserPerformance)
	s.GET("/next-to-close", h.NextToClose)
	s.GET("/funnel", h.Funnel)

	rg.GET("/users/:id/stats", h.ForUser)
}

func (h *Handler) Dashboard(c *gin.Context) {
	out, err := h.service.Dashboard(c.Request.Context())
	h.respond(c, out, err)
}

func (h *Handler) MonthlyRevenue(c *gin.Context) {
	out, err := h.service.MonthlyRevenue(c.Request.Context())
	h.respond(c, out, err)
}

func (h *Handler) Sources(c *gin.Context) {
	out, err := h.service.Sources(c.Request.Context())
	h.respond(c, out, err)
}

func (h *Handler) UserPerformance(c *gin.Context) {
	out, err := h.service.UserPerformance(c.Request.Context())
	h.respond(c, out, err)
}

func (h *Handler) NextToClose(c *gin.Context) {
	out, err := h.service.NextToClose(c.Request.Context())
	h.respond(c, out, err)
}

func (h *Handler) Funnel(c *gin.Context) {
	out, err := h.service.Funnel(c.Request.Context())
	h.respond(c, out, err)
}

func (h *Handler) ForUser(c *gin.Context) {
	out, err := h.service.ForUser(c.Request.Context(), c.Param("id"))
	h.respond(c, out, err)
}

func (h *Handler) respond(c *gin.Context, data any, err error) {
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, data)
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(c, "User not found")
	default:
		logger.Error(c.Request.Context(), "stats request failed", "path", c.FullPath(), "error", err)
		response.Internal(c, "Internal server error")
	}
}
