package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nirgunrohan/LMS/internal/http/middleware"
	"github.com/nirgunrohan/LMS/internal/services"
	"github.com/nirgunrohan/LMS/internal/utils"
)

type OrderHandler struct {
	orders *services.OrderService
	auth   *services.AuthService
}

func NewOrderHandler(orders *services.OrderService, auth *services.AuthService) *OrderHandler {
	return &OrderHandler{orders: orders, auth: auth}
}

type createOrderRequest struct {
	ClothingType string    `json:"clothingType"`
	Quantity     int       `json:"quantity"`
	PickupDate   time.Time `json:"pickupDate"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	// Orders carry the account's display name, which is not in the
	// token claims.
	user, err := h.auth.GetUser(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	orderID, err := h.orders.Place(c.Request.Context(), services.PlaceOrderInput{
		UserID:       middleware.CallerID(c),
		UserName:     user.Name,
		ClothingType: req.ClothingType,
		Quantity:     req.Quantity,
		PickupDate:   req.PickupDate,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"orderId": orderID,
	})
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.ListFor(c.Request.Context(), middleware.CallerID(c), middleware.CallerRole(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, gin.H{"success": true, "orders": orders})
}

func (h *OrderHandler) ListOwn(c *gin.Context) {
	orders, err := h.orders.ListOwn(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, gin.H{"success": true, "orders": orders})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, gin.H{"success": true, "message": "Order status updated"})
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, gin.H{"success": true, "message": "Order deleted"})
}
