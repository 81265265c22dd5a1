package handlers

import (
	"errors"
	"net/http"

	"ktv_pos_backend/internal/models"
	"ktv_pos_backend/internal/services"
	"ktv_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StockHandler exposes the stock ledger endpoints.
type StockHandler struct {
	stockService services.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ss services.StockService) *StockHandler {
	return &StockHandler{stockService: ss}
}

// RecordTransaction adds a manual purchase, adjustment, or wastage
// entry to the ledger and applies the matching stock change.
func (h *StockHandler) RecordTransaction(c *gin.Context) {
	var req services.RecordStockTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	entry, err := h.stockService.RecordTransaction(req, currentStaffID(c))
	if err != nil {
		utils.LogError(err, "RecordTransaction: service error")
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
		case errors.Is(err, services.ErrStockBelowZero):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Stock cannot go below zero.", err.Error()))
		case errors.Is(err, services.ErrInvalidStockTxType), errors.Is(err, services.ErrValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to record stock transaction.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetTransactions lists ledger entries, newest first.
func (h *StockHandler) GetTransactions(c *gin.Context) {
	var filters models.StockTransactionFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	transactions, totalCount, err := h.stockService.GetTransactions(filters)
	if err != nil {
		utils.LogError(err, "GetTransactions: service error")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve stock transactions.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":        transactions,
		"total_count": totalCount,
	})
}
