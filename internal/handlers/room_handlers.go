package handlers

import (
	"errors"
	"net/http"

	"ktv_pos_backend/internal/services"
	"ktv_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RoomHandler exposes room management endpoints.
type RoomHandler struct {
	roomService services.RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(rs services.RoomService) *RoomHandler {
	return &RoomHandler{roomService: rs}
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req services.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	room, err := h.roomService.CreateRoom(req)
	if err != nil {
		utils.LogError(err, "CreateRoom: service error")
		if errors.Is(err, services.ErrRoomNumberExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Room number already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create room.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) GetRooms(c *gin.Context) {
	rooms, err := h.roomService.GetRooms()
	if err != nil {
		utils.LogError(err, "GetRooms: service error")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve rooms.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) GetRoomByID(c *gin.Context) {
	roomID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid room ID format")
		return
	}

	room, err := h.roomService.GetRoomByID(roomID)
	if err != nil {
		utils.LogError(err, "GetRoomByID: service error")
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve room.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid room ID format")
		return
	}

	var req services.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	room, err := h.roomService.UpdateRoom(roomID, req)
	if err != nil {
		utils.LogError(err, "UpdateRoom: service error")
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidRoomStatus) || errors.Is(err, services.ErrValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update room.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, room)
}

// UpdateRoomStatus changes only the room's status, for quick front-desk
// toggles like cleaning or reserved.
func (h *RoomHandler) UpdateRoomStatus(c *gin.Context) {
	roomID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid room ID format")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	room, err := h.roomService.UpdateRoomStatus(roomID, req.Status)
	if err != nil {
		utils.LogError(err, "UpdateRoomStatus: service error")
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidRoomStatus) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update room status.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom removes a room. Rooms with a pending order are rejected;
// rooms with sales history are deactivated instead of deleted.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid room ID format")
		return
	}

	result, err := h.roomService.DeleteRoom(roomID)
	if err != nil {
		utils.LogError(err, "DeleteRoom: service error")
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		} else if errors.Is(err, services.ErrRoomHasPendingOrder) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Room has a pending order; settle or cancel it first.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete room.", "Internal error"))
		}
		return
	}

	if result.Deactivated {
		c.JSON(http.StatusOK, gin.H{"message": "Room has sales history and was deactivated", "deactivated": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully", "deleted": true})
}
