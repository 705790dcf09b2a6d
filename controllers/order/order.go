package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aarohi-jewels/storefront-api/checkout"
	"github.com/aarohi-jewels/storefront-api/models"
	"github.com/aarohi-jewels/storefront-api/orders"
	"github.com/aarohi-jewels/storefront-api/store"
)

// -------- Request Structs --------

type SubmitOrderRequest struct {
	checkout.Form
	// Touch marks a touch-primary client; those navigate to the deep link
	// directly instead of scanning a code.
	Touch bool `json:"touch"`
}

type UpdateOrderStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	ChangedBy string `json:"changed_by"`
}

// -------- Handlers --------

// POST /checkout/submit
func SubmitOrderHandler(ctrl *orders.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmitOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		result, err := ctrl.Submit(c.Request.Context(), req.Form)
		if err != nil {
			writeSubmitError(c, err)
			return
		}

		mode := "qr"
		if req.Touch {
			mode = "redirect"
		}
		c.JSON(http.StatusOK, gin.H{
			"orderId":      result.OrderID,
			"savedLocally": result.SavedLocally,
			"message":      result.Message,
			"mode":         mode,
			"handoff":      result.HandOff,
		})
	}
}

// writeSubmitError maps the submission taxonomy onto HTTP responses. The
// plain-language message goes to the user; codes and stacks stay in logs.
func writeSubmitError(c *gin.Context, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.Is(err, orders.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
	case errors.Is(err, orders.ErrSubmitInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "An order is already being placed, please wait"})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  verr.Error(),
			"fields": verr.Fields,
		})
	case store.IsMalformed(err):
		// Data-quality rejection, not an upstream outage.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case store.IsPermission(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// GET /admin/orders
func GetAllOrdersHandler(ctrl *orders.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, fromCache, err := ctrl.ListOrders(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list, "fromCache": fromCache})
	}
}

// GET /admin/orders/:orderID. Accepts the business id or the internal key.
func GetOrderByIDHandler(ctrl *orders.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		order, err := ctrl.GetOrder(c.Request.Context(), id)
		if err != nil {
			if store.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(ctrl *orders.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		changedBy := req.ChangedBy
		if changedBy == "" {
			changedBy = "admin"
		}

		if err := ctrl.UpdateStatus(c.Request.Context(), id, newStatus, changedBy); err != nil {
			if store.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// DELETE /admin/orders/:orderID
func DeleteOrderHandler(ctrl *orders.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		if err := ctrl.DeleteOrder(c.Request.Context(), id); err != nil {
			if store.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
