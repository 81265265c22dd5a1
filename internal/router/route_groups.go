package router

import (
	"ktv_pos_backend/internal/handlers"
	"ktv_pos_backend/internal/middleware"
	"ktv_pos_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.POST("/logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupCategoryRoutes sets up the menu category routes.
func SetupCategoryRoutes(authenticatedGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	categoryRoutes := authenticatedGroup.Group("/categories")
	categoryRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		categoryRoutes.GET("", catalogHandler.GetCategories)
	}

	categoryAdminRoutes := authenticatedGroup.Group("/categories")
	categoryAdminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		categoryAdminRoutes.POST("", catalogHandler.CreateCategory)
		categoryAdminRoutes.PUT("/:id", catalogHandler.UpdateCategory)
		categoryAdminRoutes.DELETE("/:id", catalogHandler.DeleteCategory)
	}
}

// SetupMenuItemRoutes sets up the menu item routes.
func SetupMenuItemRoutes(authenticatedGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	itemRoutes := authenticatedGroup.Group("/menu-items")
	itemRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		itemRoutes.GET("", catalogHandler.GetItems)
		itemRoutes.GET("/:id", catalogHandler.GetItemByID)
	}

	itemAdminRoutes := authenticatedGroup.Group("/menu-items")
	itemAdminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		itemAdminRoutes.POST("", catalogHandler.CreateItem)
		itemAdminRoutes.PUT("/:id", catalogHandler.UpdateItem)
		itemAdminRoutes.DELETE("/:id", catalogHandler.DeleteItem)
	}
}

// SetupRoomRoutes sets up room management plus the per-room order and
// checkout routes. The room is always explicit in the path.
func SetupRoomRoutes(authenticatedGroup *gin.RouterGroup, roomHandler *handlers.RoomHandler, roomOrderHandler *handlers.RoomOrderHandler) {
	roomRoutes := authenticatedGroup.Group("/rooms")
	roomRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		roomRoutes.GET("", roomHandler.GetRooms)
		roomRoutes.GET("/:id", roomHandler.GetRoomByID)
		roomRoutes.PATCH("/:id/status", roomHandler.UpdateRoomStatus)

		roomRoutes.POST("/:id/order", roomOrderHandler.SaveOrder)
		roomRoutes.GET("/:id/order", roomOrderHandler.GetOrder)
		roomRoutes.DELETE("/:id/order", roomOrderHandler.CancelOrder)
		roomRoutes.POST("/:id/checkout", roomOrderHandler.Checkout)
	}

	roomAdminRoutes := authenticatedGroup.Group("/rooms")
	roomAdminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		roomAdminRoutes.POST("", roomHandler.CreateRoom)
		roomAdminRoutes.PUT("/:id", roomHandler.UpdateRoom)
		roomAdminRoutes.DELETE("/:id", roomHandler.DeleteRoom)
	}
}

// SetupSaleRoutes sets up the bill archive routes.
func SetupSaleRoutes(authenticatedGroup *gin.RouterGroup, saleHandler *handlers.SaleHandler) {
	saleRoutes := authenticatedGroup.Group("/sales")
	saleRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		saleRoutes.GET("", saleHandler.GetSales)
		saleRoutes.GET("/:id", saleHandler.GetSaleByID)
	}
}

// SetupStockRoutes sets up the stock ledger routes.
func SetupStockRoutes(authenticatedGroup *gin.RouterGroup, stockHandler *handlers.StockHandler) {
	stockRoutes := authenticatedGroup.Group("/stock-transactions")
	stockRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		stockRoutes.POST("", stockHandler.RecordTransaction)
		stockRoutes.GET("", stockHandler.GetTransactions)
	}
}

// SetupDashboardRoutes sets up the dashboard routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, saleHandler *handlers.SaleHandler) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	dashboardRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		dashboardRoutes.GET("/summary", saleHandler.GetDashboard)
	}
}
