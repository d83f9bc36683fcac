package handlers

import (
	"net/http"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	feature := rg.Group("/jobs/:id/feature-payment")
	feature.Use(middleware.AuthMiddleware())
	{
		feature.POST("", h.InitiateFeature)
	}

	// The gateway posts here directly, so no authentication.
	callbacks := rg.Group("/jobs/payment")
	{
		callbacks.POST("/success", h.callback(services.PaymentOutcomeSuccess))
		callbacks.POST("/fail", h.callback(services.PaymentOutcomeFail))
		callbacks.POST("/cancel", h.callback(services.PaymentOutcomeCancel))
	}
}

func (h *PaymentHandler) InitiateFeature(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.paymentService.InitiateFeature(c.Request.Context(), h.GetDB(c), caller, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// callback always redirects; a malformed body just yields an empty tran_id.
func (h *PaymentHandler) callback(outcome string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.PaymentCallbackRequest
		_ = c.ShouldBind(&req)

		target := h.paymentService.HandleCallback(c.Request.Context(), h.GetDB(c), outcome, req.TranID)
		c.Redirect(http.StatusFound, target)
	}
}
