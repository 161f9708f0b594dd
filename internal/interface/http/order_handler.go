package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ecomstack/storefront-api/internal/application"
	"github.com/ecomstack/storefront-api/internal/interface/middleware"
	"github.com/ecomstack/storefront-api/pkg/helpers"
	"github.com/ecomstack/storefront-api/pkg/response"
	"github.com/ecomstack/storefront-api/pkg/validation"
)

type OrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

// ListMine GET /api/auth/orders
// Returns the signed-in buyer's orders as a bare JSON array, newest first.
func (h *OrderHandler) ListMine(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	orders, err := h.Svc.ListMine(c.Request.Context(), uid)
	if err != nil {
		helpers.LogError(h.Logger, "list orders failed", err, logrus.Fields{"user_id": uid})
		response.Fail(c, http.StatusInternalServerError, "Error while getting orders", nil)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListAll GET /api/auth/all-orders — admin only, newest first.
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		helpers.LogError(h.Logger, "list all orders failed", err, nil)
		response.Fail(c, http.StatusInternalServerError, "Error while getting orders", nil)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=not_processed processing shipped delivered cancelled"`
}

// UpdateStatus PUT /api/auth/order-status/:orderId — admin only.
// Responds with the updated order document.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID := c.Param("orderId")
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	o, err := h.Svc.SetStatus(c.Request.Context(), orderID, req.Status)
	switch {
	case errors.Is(err, application.ErrInvalidStatus):
		response.Fail(c, http.StatusBadRequest, "Invalid order status", nil)
		return
	case errors.Is(err, application.ErrOrderNotFound):
		response.Fail(c, http.StatusNotFound, "Order not found", nil)
		return
	case err != nil:
		helpers.LogError(h.Logger, "update order status failed", err, logrus.Fields{"order_id": orderID})
		response.Fail(c, http.StatusInternalServerError, "Error while updating order", nil)
		return
	}
	c.JSON(http.StatusOK, o)
}
