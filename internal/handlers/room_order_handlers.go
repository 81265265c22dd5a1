package handlers

import (
	"errors"
	"net/http"

	"ktv_pos_backend/internal/services"
	"ktv_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RoomOrderHandler exposes draft order and checkout endpoints. The room
// is always named explicitly in the URL; there is no session-implied
// current room.
type RoomOrderHandler struct {
	roomOrderService services.RoomOrderService
	checkoutService  services.CheckoutService
}

// NewRoomOrderHandler creates a new RoomOrderHandler.
func NewRoomOrderHandler(ros services.RoomOrderService, cs services.CheckoutService) *RoomOrderHandler {
	return &RoomOrderHandler{roomOrderService: ros, checkoutService: cs}
}

// SaveOrder creates or fully replaces the room's draft order.
func (h *RoomOrderHandler) SaveOrder(c *gin.Context) {
	roomID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid room ID format")
		return
	}

	var req services.SaveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.roomOrderService.SaveOrder(roomID, req)
	if err != nil {
		utils.LogError(err, "SaveOrder: service error")
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		case errors.Is(err, services.ErrItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Order references an unknown menu item.", err.Error()))
		case errors.Is(err, services.ErrItemUnavailable):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Order references an unavailable menu item.", err.Error()))
		case errors.Is(err, services.ErrEmptyOrder), errors.Is(err, services.ErrValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrder returns the room's pending draft order.
func (h *RoomOrderHandler) GetOrder(c *gin.Context) {
	roomID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid room ID format")
		return
	}

	order, err := h.roomOrderService.GetOrderByRoomID(roomID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		case errors.Is(err, services.ErrDraftNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No pending order for this room.", err.Error()))
		default:
			utils.LogError(err, "GetOrder: service error")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder discards the room's draft and frees the room.
func (h *RoomOrderHandler) CancelOrder(c *gin.Context) {
	roomID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid room ID format")
		return
	}

	if err := h.roomOrderService.CancelOrder(roomID); err != nil {
		utils.LogError(err, "CancelOrder: service error")
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		case errors.Is(err, services.ErrDraftNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No pending order for this room.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to cancel order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}

// Checkout settles the room's pending order into a finalized sale.
func (h *RoomOrderHandler) Checkout(c *gin.Context) {
	roomID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid room ID format")
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	sale, err := h.checkoutService.Checkout(roomID, req, currentStaffID(c))
	if err != nil {
		utils.LogError(err, "Checkout: service error")
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		case errors.Is(err, services.ErrDraftNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No pending order for this room.", err.Error()))
		case errors.Is(err, services.ErrInsufficientStock):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient stock for one or more items.", err.Error()))
		case errors.Is(err, services.ErrItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "An ordered item no longer exists.", err.Error()))
		case errors.Is(err, services.ErrDuplicateBill):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Bill number collision, resubmit the checkout.", err.Error()))
		case errors.Is(err, services.ErrEmptyOrder), errors.Is(err, services.ErrInvalidDiscount):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Checkout failed.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, sale)
}
