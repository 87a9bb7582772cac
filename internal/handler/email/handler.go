package email

import (
	"net/http"

	"github.com/gin-gonic/gin"

	emailhandlers "github.com/motortrade/notification-api/internal/email"
	"github.com/motortrade/notification-api/internal/handler"
	"github.com/motortrade/notification-api/internal/model"
	"github.com/motortrade/notification-api/pkg/httputil"
)

// Handler exposes the legacy direct-send endpoints: they invoke the email
// handlers synchronously without storing a notification.
type Handler struct {
	purchase *emailhandlers.PurchaseHandler
	shipping *emailhandlers.ShippingHandler
}

func NewHandler(purchase *emailhandlers.PurchaseHandler, shipping *emailhandlers.ShippingHandler) *Handler {
	return &Handler{purchase: purchase, shipping: shipping}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	emails := r.Group("/email")
	{
		emails.POST("/send-purchasing-status", h.SendPurchasingStatus)
		emails.POST("/send-shipping-status", h.SendShippingStatus)
	}
}

func (h *Handler) SendPurchasingStatus(c *gin.Context) {
	var req model.PurchasingStatusEmail
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.purchase.SendStatusUpdate(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) SendShippingStatus(c *gin.Context) {
	var req model.ShippingStatusEmail
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.shipping.SendStatusUpdate(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}
