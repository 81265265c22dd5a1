package router

import (
	"database/sql"

	"ktv_pos_backend/internal/handlers"
	"ktv_pos_backend/internal/middleware"
	"ktv_pos_backend/internal/repositories"
	"ktv_pos_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	roomRepo := repositories.NewRoomRepository(db)
	roomOrderRepo := repositories.NewRoomOrderRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	stockTxRepo := repositories.NewStockTransactionRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	catalogService := services.NewCatalogService(catalogRepo, roomOrderRepo, saleRepo, stockTxRepo, db)
	roomService := services.NewRoomService(roomRepo, roomOrderRepo, saleRepo, db)
	roomOrderService := services.NewRoomOrderService(roomRepo, roomOrderRepo, catalogRepo, db)
	checkoutService := services.NewCheckoutService(roomRepo, roomOrderRepo, catalogRepo, saleRepo, stockTxRepo, db)
	stockService := services.NewStockService(catalogRepo, stockTxRepo, db)
	saleService := services.NewSaleService(saleRepo, roomRepo, catalogRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	roomHandler := handlers.NewRoomHandler(roomService)
	roomOrderHandler := handlers.NewRoomOrderHandler(roomOrderService, checkoutService)
	saleHandler := handlers.NewSaleHandler(saleService)
	stockHandler := handlers.NewStockHandler(stockService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupAuthRoutes(apiV1, authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupCategoryRoutes(authenticated, catalogHandler)
		SetupMenuItemRoutes(authenticated, catalogHandler)
		SetupRoomRoutes(authenticated, roomHandler, roomOrderHandler)
		SetupSaleRoutes(authenticated, saleHandler)
		SetupStockRoutes(authenticated, stockHandler)
		SetupDashboardRoutes(authenticated, saleHandler)
	}
}
