package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/service"
	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
	"github.com/nvolkov/brewhub-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

type CheckoutRequest struct {
	Note string `json:"note" binding:"max=500"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// Checkout converts the cart into a pending order
// POST /api/v1/orders
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout input")
		return
	}

	order, err := ctrl.orderService.Checkout(userID, req.Note)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyCart) {
			apperrors.UnprocessableEntity(c, apperrors.CartEmpty, "Cannot check out an empty cart")
			return
		}
		log.Error("Checkout failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// ListMyOrders returns the authenticated user's orders, newest first
// GET /api/v1/orders
func (ctrl *OrderController) ListMyOrders(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	skip, limit := paginationParams(c)

	orders, err := ctrl.orderService.GetUserOrders(userID, skip, limit)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns a single order, owner or staff only
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(uint(orderID), userID, middleware.IsAdmin(c))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		if errors.Is(err, apperrors.ErrForbidden) {
			apperrors.Forbidden(c, "")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// CancelOrder lets the customer cancel their own order
// POST /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.CancelOrder(uint(orderID), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, apperrors.ErrForbidden):
			apperrors.Forbidden(c, "")
		case errors.Is(err, apperrors.ErrInvalidTransition):
			apperrors.UnprocessableEntity(c, apperrors.OrderInvalidTransition, "Order can no longer be cancelled")
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// ListByStatus returns the staff queue for one lifecycle state
// GET /api/v1/admin/orders?status=pending
func (ctrl *OrderController) ListByStatus(c *gin.Context) {
	status := model.OrderStatus(c.DefaultQuery("status", string(model.OrderStatusPending)))
	if !status.IsValid() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown order status")
		return
	}
	skip, limit := paginationParams(c)

	orders, err := ctrl.orderService.ListByStatus(status, skip, limit)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateStatus moves an order along its lifecycle, staff only
// PATCH /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status is required")
		return
	}

	order, err := ctrl.orderService.UpdateStatus(uint(orderID), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, apperrors.ErrInvalidTransition):
			apperrors.UnprocessableEntity(c, apperrors.OrderInvalidTransition, "Status transition is not allowed")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// paginationParams reads skip/limit query parameters with safe defaults.
func paginationParams(c *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	return skip, limit
}
