package outreach

import (
	"errors"
	"net/http"

	"formatech/internal/pkg/logger"
	"formatech/internal/pkg/response"
	"formatech/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service    *Service
	middleware []gin.HandlerFunc
}

// NewHandler takes the middleware applied to the outreach group only,
// typically a rate limiter.
func NewHandler(service *Service, middleware ...gin.HandlerFunc) *Handler {
	return &Handler{service: service, middleware: middleware}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	o := rg.Group("/outreach", h.middleware...)
	o.POST("/generate-message", h.GenerateMessage)
	o.POST("/send-email", h.SendEmail)
	o.POST("/enrich", h.Enrich)

	rg.GET("/settings/check-apis", h.CheckAPIs)
}

func (h *Handler) GenerateMessage(c *gin.Context) {
	var req GenerateRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.service.GenerateMessage(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) SendEmail(c *gin.Context) {
	var req SendEmailRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.service.SendEmail(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Enrich(c *gin.Context) {
	var req EnrichRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.service.Enrich(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) CheckAPIs(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.APIStatus())
}

func (h *Handler) fail(c *gin.Context, err error) {
	var cfgErr *ConfigError
	var provErr *ProviderError
	switch {
	case errors.As(err, &cfgErr):
		response.Error(c, http.StatusInternalServerError, "CONFIG_ERROR", cfgErr.Message)
	case errors.Is(err, ErrContactNotFound), errors.Is(err, ErrNoEmail):
		response.NotFound(c, "Contact non trouvé ou email manquant")
	case errors.Is(err, ErrCompanyNotFound):
		response.NotFound(c, "Entreprise non trouvée")
	case errors.As(err, &provErr):
		logger.Warn(c.Request.Context(), "outreach provider error", "provider", provErr.Provider, "status", provErr.Status)
		response.Error(c, http.StatusBadGateway, "PROVIDER_ERROR", "Erreur lors de la recherche "+provErr.Provider)
	case errors.Is(err, ErrDelivery):
		logger.Error(c.Request.Context(), "email delivery failed", "error", err)
		response.Error(c, http.StatusBadGateway, "PROVIDER_ERROR", "Erreur lors de l'envoi de l'email")
	default:
		logger.Error(c.Request.Context(), "outreach request failed", "path", c.FullPath(), "error", err)
		response.Internal(c, "Internal server error")
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
