package reminders

import (
	"errors"
	"net/http"
	"strconv"

	"formatech/internal/pkg/logger"
	"formatech/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	r := rg.Group("/reminders")
	r.GET("", h.List)
	r.GET("/count", h.Count)
	r.PUT("/read-all", h.MarkAllRead)
	r.PUT("/:id/read", h.MarkRead)
	if h.hub != nil {
		r.GET("/ws", h.Subscribe)
	}
}

func (h *Handler) List(c *gin.Context) {
	var isRead *bool
	if raw, ok := c.GetQuery("is_read"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.ValidationFailed(c, map[string]string{"is_read": "boolean"})
			return
		}
		isRead = &v
	}

	list, err := h.service.List(c.Request.Context(), isRead)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) Count(c *gin.Context) {
	n, err := h.service.Count(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": n})
}

func (h *Handler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	n, err := h.service.MarkAllRead(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}

// Subscribe streams unread-count events over a websocket.
func (h *Handler) Subscribe(c *gin.Context) {
	ctx := c.Request.Context()
	n, err := h.service.UnreadCount(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.hub.ServeWS(c.Writer, c.Request, Event{Type: EventUnreadCount, Count: n}); err != nil {
		// the upgrader already wrote the HTTP error
		logger.Warn(ctx, "websocket upgrade failed", "error", err)
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "Reminder not found")
	default:
		logger.Error(c.Request.Context(), "reminders request failed", "error", err)
		response.Internal(c, "Internal server error")
	}
}
