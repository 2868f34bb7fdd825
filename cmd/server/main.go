package main

import (
	"log"

	"apparel_store/internal/config"
	"apparel_store/internal/database"
	"apparel_store/internal/handlers"
	"apparel_store/internal/middleware"
	"apparel_store/internal/migrations"
	"apparel_store/internal/redis"
	"apparel_store/internal/repository"
	"apparel_store/internal/services"
	"apparel_store/pkg/imagekit"
	"apparel_store/pkg/razorpay"
	"apparel_store/pkg/shiprocket"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	cache, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer cache.Close()

	if err := migrations.Seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// External partner clients
	gateway := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret)
	carrier := shiprocket.NewClient(cfg.ShiprocketAPIURL, cfg.ShiprocketEmail, cfg.ShiprocketPassword)
	cdn := imagekit.NewClient(cfg.ImageKitAPIURL, cfg.ImageKitUploadURL, cfg.ImageKitPrivateKey)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	exchangeRepo := repository.NewExchangeRepository(db)
	logRepo := repository.NewShiprocketLogRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Services
	userService := services.NewUserService(userRepo, cfg.JWTSecret, cfg.JWTExpiryHours)
	catalogService := services.NewCatalogService(productRepo, categoryRepo, cdn, cache)
	cartService := services.NewCartService(cartRepo, productRepo)
	shipmentService := services.NewShipmentService(carrier, cache, orderRepo, productRepo, logRepo, cfg.ShiprocketPickupLocation, cfg.ShiprocketPickupPincode)
	orderService := services.NewOrderService(orderRepo, cartRepo, productRepo, settingRepo, gateway, shipmentService)
	paymentService := services.NewPaymentService(gateway, orderRepo, cartRepo, productRepo, shipmentService)
	exchangeService := services.NewExchangeService(exchangeRepo, orderRepo, productRepo)
	analyticsService := services.NewAnalyticsService(orderRepo, cdn, cache)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	shipmentHandler := handlers.NewShipmentHandler(shipmentService, orderService, logRepo)
	exchangeHandler := handlers.NewExchangeHandler(exchangeService)
	adminHandler := handlers.NewAdminHandler(analyticsService)

	handlers.RegisterValidators()

	router := gin.Default()
	router.Use(middleware.CORS())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Public storefront
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/products", catalogHandler.ListProducts)
		api.GET("/products/:slug", catalogHandler.GetProduct)
		api.GET("/categories", catalogHandler.ListCategories)

		// Partner callbacks, authenticated by signature rather than JWT
		api.POST("/webhooks/razorpay", paymentHandler.Webhook)
		api.POST("/webhooks/shiprocket", shipmentHandler.CarrierWebhook)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(cfg.JWTSecret))
	{
		authed.GET("/me", authHandler.Me)

		authed.GET("/cart", cartHandler.Get)
		authed.POST("/cart/items", cartHandler.AddItem)
		authed.PUT("/cart/items/:id", cartHandler.UpdateQuantity)
		authed.DELETE("/cart/items/:id", cartHandler.RemoveItem)
		authed.DELETE("/cart", cartHandler.Clear)

		authed.POST("/checkout", orderHandler.Checkout)
		authed.POST("/checkout/verify", paymentHandler.VerifyCheckout)

		authed.GET("/orders", orderHandler.ListMine)
		authed.GET("/orders/:id", orderHandler.GetMine)
		authed.POST("/orders/:id/cancel", orderHandler.Cancel)
		authed.GET("/orders/:id/exchange-eligibility", exchangeHandler.CheckEligibility)

		authed.POST("/exchanges", exchangeHandler.Create)
		authed.GET("/exchanges", exchangeHandler.ListMine)
		authed.POST("/exchanges/:id/cancel", exchangeHandler.Cancel)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())
	{
		admin.POST("/products", catalogHandler.CreateProduct)
		admin.PUT("/products/:id", catalogHandler.UpdateProduct)
		admin.DELETE("/products/:id", catalogHandler.DeleteProduct)
		admin.PUT("/products/:id/stock", catalogHandler.UpdateStock)
		admin.POST("/products/:id/images", catalogHandler.UploadImage)
		admin.DELETE("/products/:id/images/:image_id", catalogHandler.DeleteImage)
		admin.PUT("/products/:id/images/:image_id/primary", catalogHandler.SetPrimaryImage)
		admin.PUT("/products/:id/size-chart", catalogHandler.UpsertSizeChart)

		admin.POST("/categories", catalogHandler.CreateCategory)
		admin.PUT("/categories/:id", catalogHandler.UpdateCategory)
		admin.DELETE("/categories/:id", catalogHandler.DeleteCategory)

		admin.GET("/orders", orderHandler.List)
		admin.GET("/orders/:id", orderHandler.Get)
		admin.PUT("/orders/:id/status", orderHandler.OverrideStatus)

		admin.POST("/orders/:id/shipment", shipmentHandler.RetryCreateOrder)
		admin.POST("/orders/:id/shipment/awb", shipmentHandler.RetryAssignAWB)
		admin.POST("/orders/:id/shipment/pickup", shipmentHandler.RetrySchedulePickup)
		admin.GET("/orders/:id/shipment/track", shipmentHandler.Track)
		admin.GET("/shipments/logs", shipmentHandler.Logs)

		admin.GET("/exchanges", exchangeHandler.List)
		admin.POST("/exchanges/:id/approve", exchangeHandler.Approve)
		admin.POST("/exchanges/:id/reject", exchangeHandler.Reject)
		admin.POST("/exchanges/:id/ship", exchangeHandler.MarkShipped)
		admin.POST("/exchanges/:id/complete", exchangeHandler.Complete)

		admin.GET("/analytics/summary", adminHandler.Summary)
		admin.GET("/analytics/top-products", adminHandler.TopProducts)
		admin.GET("/analytics/usage", adminHandler.Usage)
		admin.GET("/analytics/orders/export", adminHandler.ExportOrders)
	}

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
