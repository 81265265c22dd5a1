package handlers

import (
	"errors"
	"net/http"

	"ktv_pos_backend/internal/models"
	"ktv_pos_backend/internal/services"
	"ktv_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SaleHandler exposes the bill archive and the dashboard.
type SaleHandler struct {
	saleService services.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(ss services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: ss}
}

// GetSales lists finalized sales with optional room/staff/date filters.
func (h *SaleHandler) GetSales(c *gin.Context) {
	var filters models.SaleFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	sales, totalCount, err := h.saleService.GetSales(filters)
	if err != nil {
		utils.LogError(err, "GetSales: service error")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve sales.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":        sales,
		"total_count": totalCount,
	})
}

// GetSaleByID returns one sale with its line-item snapshots.
func (h *SaleHandler) GetSaleByID(c *gin.Context) {
	saleID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.GetSaleByID(saleID)
	if err != nil {
		utils.LogError(err, "GetSaleByID: service error")
		if errors.Is(err, services.ErrSaleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve sale.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, sale)
}

// GetDashboard returns today's trading summary.
func (h *SaleHandler) GetDashboard(c *gin.Context) {
	summary, err := h.saleService.GetDashboardSummary()
	if err != nil {
		utils.LogError(err, "GetDashboard: service error")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard summary.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}
