package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"comanda-system/config"
	"comanda-system/internal/database"
	"comanda-system/internal/database/models"
	"comanda-system/internal/events"
	"comanda-system/internal/gateway/handlers"
	"comanda-system/internal/gateway/middleware"
	"comanda-system/internal/locations"
	"comanda-system/internal/menu"
	"comanda-system/internal/orders"
	"comanda-system/internal/printing"
	"comanda-system/internal/reservations"
	"comanda-system/internal/tables"
	"comanda-system/internal/users"
	"comanda-system/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetJWTSecret(cfg.Auth.JWTSecret)

	db, err := database.NewConnection(cfg.DB.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	broker := events.NewRedisBroker(redisClient)

	ordersService := orders.NewService(db, broker)
	menuService := menu.NewService(db, redisClient)
	tablesService := tables.NewService(db)
	reservationsService := reservations.NewService(db)
	locationsService := locations.NewService(db)
	usersService := users.NewService(db, cfg.Auth.TokenTTL)

	printerStore := printing.NewGormPrinterStore(db)
	dispatcher := printing.NewDispatcher(
		ordersService,
		printerStore,
		printing.NewTCPGateway(cfg.Printer.SendTimeout),
		printing.NewFormatter(cfg.Printer.DefaultDestination),
	)

	authHandler := handlers.NewAuthHandler(usersService)
	ordersHandler := handlers.NewOrdersHandler(ordersService)
	printersHandler := handlers.NewPrintersHandler(dispatcher, printerStore)
	tablesHandler := handlers.NewTablesHandler(tablesService)
	reservationsHandler := handlers.NewReservationsHandler(reservationsService)
	menuHandler := handlers.NewMenuHandler(menuService)
	locationsHandler := handlers.NewLocationsHandler(locationsService)
	eventsHandler := handlers.NewEventsHandler(broker)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit("100-M"))

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	{
		ordersGroup := protected.Group("/orders")
		{
			ordersGroup.POST("", ordersHandler.Create)
			ordersGroup.GET("", ordersHandler.List)
			ordersGroup.GET("/:id", ordersHandler.Get)
			ordersGroup.PUT("/:id/status", ordersHandler.UpdateStatus)
			ordersGroup.POST("/:id/items", ordersHandler.AddItem)
			ordersGroup.DELETE("/:id/items/:itemID", ordersHandler.RemoveItem)
		}

		printersGroup := protected.Group("/printers")
		{
			printersGroup.POST("/print-order/:orderID", printersHandler.PrintOrder)

			admin := printersGroup.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			{
				admin.POST("/test/:printerID", printersHandler.TestPrinter)
				admin.GET("/configs", printersHandler.ListConfigs)
				admin.POST("/configs", printersHandler.CreateConfig)
				admin.PUT("/configs/:id", printersHandler.UpdateConfig)
				admin.DELETE("/configs/:id", printersHandler.DeleteConfig)
			}
		}

		tablesGroup := protected.Group("/tables")
		{
			tablesGroup.GET("", tablesHandler.List)
			tablesGroup.PUT("/:id/status", tablesHandler.UpdateStatus)

			admin := tablesGroup.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			{
				admin.POST("", tablesHandler.Create)
				admin.PUT("/:id", tablesHandler.Update)
				admin.DELETE("/:id", tablesHandler.Delete)
			}
		}

		reservationsGroup := protected.Group("/reservations")
		{
			reservationsGroup.POST("", reservationsHandler.Create)
			reservationsGroup.GET("", reservationsHandler.List)
			reservationsGroup.GET("/availability", reservationsHandler.CheckAvailability)
			reservationsGroup.GET("/today", reservationsHandler.Today)
			reservationsGroup.GET("/:id", reservationsHandler.Get)
			reservationsGroup.PUT("/:id", reservationsHandler.Update)
			reservationsGroup.DELETE("/:id", reservationsHandler.Cancel)
		}

		menuGroup := protected.Group("/menu")
		{
			menuGroup.GET("/categories", menuHandler.ListCategories)
			menuGroup.GET("/items", menuHandler.ListItems)

			admin := menuGroup.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			{
				admin.POST("/categories", menuHandler.CreateCategory)
				admin.PUT("/categories/:id", menuHandler.UpdateCategory)
				admin.POST("/items", menuHandler.CreateItem)
				admin.PUT("/items/:id", menuHandler.UpdateItem)
				admin.DELETE("/items/:id", menuHandler.DeleteItem)
				admin.PUT("/items/:id/location-price", menuHandler.SetLocationPrice)
			}
		}

		locationsGroup := protected.Group("/locations")
		{
			locationsGroup.GET("", locationsHandler.List)

			admin := locationsGroup.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			{
				admin.POST("", locationsHandler.Create)
				admin.PUT("/:id", locationsHandler.Update)
				admin.DELETE("/:id", locationsHandler.Delete)
			}
		}

		protected.GET("/events/stream", eventsHandler.Stream)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	port := ":" + cfg.Server.Port
	log.Printf("Starting server on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
