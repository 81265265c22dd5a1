package handlers

import (
	"errors"
	"net/http"

	"ktv_pos_backend/internal/services"
	"ktv_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes category and menu item endpoints.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

// --- Categories ---

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	category, err := h.catalogService.CreateCategory(req)
	if err != nil {
		utils.LogError(err, "CreateCategory: service error")
		if errors.Is(err, services.ErrCategoryExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category name already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.GetCategories()
	if err != nil {
		utils.LogError(err, "GetCategories: service error")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve categories.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid category ID format")
		return
	}

	var req services.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	category, err := h.catalogService.UpdateCategory(categoryID, req)
	if err != nil {
		utils.LogError(err, "UpdateCategory: service error")
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", err.Error()))
		} else if errors.Is(err, services.ErrCategoryExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category name already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid category ID format")
		return
	}

	if err := h.catalogService.DeleteCategory(categoryID); err != nil {
		utils.LogError(err, "DeleteCategory: service error")
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", err.Error()))
		} else if errors.Is(err, services.ErrCategoryInUse) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category still has menu items.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// --- Menu Items ---

func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req services.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.catalogService.CreateItem(req, currentStaffID(c))
	if err != nil {
		utils.LogError(err, "CreateItem: service error")
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Referenced category not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItems lists menu items. ?active_only=true narrows to orderable
// items; ?category_id filters by category.
func (h *CatalogHandler) GetItems(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := utils.StrToInt64(raw)
		if err != nil {
			utils.RespondValidationFailed(c, "Invalid category_id format")
			return
		}
		categoryID = &id
	}

	items, err := h.catalogService.GetItems(activeOnly, categoryID)
	if err != nil {
		utils.LogError(err, "GetItems: service error")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve menu items.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) GetItemByID(c *gin.Context) {
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid item ID format")
		return
	}

	item, err := h.catalogService.GetItemByID(itemID)
	if err != nil {
		utils.LogError(err, "GetItemByID: service error")
		if errors.Is(err, services.ErrItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid item ID format")
		return
	}

	var req services.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.catalogService.UpdateItem(itemID, req, currentStaffID(c))
	if err != nil {
		utils.LogError(err, "UpdateItem: service error")
		if errors.Is(err, services.ErrItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
		} else if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Referenced category not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem removes a menu item when nothing references it. Items in a
// pending draft are rejected with 409; items with sale history are
// deactivated instead of deleted.
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid item ID format")
		return
	}

	result, err := h.catalogService.DeleteItem(itemID)
	if err != nil {
		utils.LogError(err, "DeleteItem: service error")
		if errors.Is(err, services.ErrItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
		} else if errors.Is(err, services.ErrItemInDraftOrder) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Menu item is in a pending room order.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete menu item.", "Internal error"))
		}
		return
	}

	if result.Deactivated {
		c.JSON(http.StatusOK, gin.H{"message": "Menu item has sale history and was deactivated", "deactivated": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully", "deleted": true})
}
