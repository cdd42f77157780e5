package router

import (
	"time"

	"clubpos/internal/config"
	"clubpos/internal/handler"
	"clubpos/internal/middleware"
	"clubpos/internal/model"
	"clubpos/internal/repository"
	"clubpos/internal/service"
	"clubpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine plus the
// stock sync service, which the main goroutine also hands to the resync cron.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, service.StockSyncService) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	stockRepo := repository.NewStockRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	courtRepo := repository.NewCourtRepository(db)
	paymentRepo := repository.NewPaymentMethodRepository(db)

	// Worker dispatcher, injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	syncSvc := service.NewStockSyncService(movementRepo, stockRepo, productRepo, dispatcher)
	inventorySvc := service.NewInventoryService(movementRepo, stockRepo, productRepo, syncSvc)
	saleSvc := service.NewSaleService(saleRepo, movementRepo, productRepo, paymentRepo, inventorySvc, syncSvc)
	authSvc := service.NewAuthService(userRepo, cfg)
	userSvc := service.NewUserService(userRepo)
	productSvc := service.NewProductService(productRepo)
	bookingSvc := service.NewBookingService(bookingRepo, courtRepo, paymentRepo)
	catalogSvc := service.NewCatalogService(courtRepo, paymentRepo)
	reportSvc := service.NewReportService(saleRepo, bookingRepo, paymentRepo, cfg.PDFStoragePath)
	dashboardSvc := service.NewDashboardService(saleRepo, bookingRepo, paymentRepo, productRepo, stockRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(userSvc)
	productsH := handler.NewProductsHandler(productSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc, syncSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	bookingsH := handler.NewBookingsHandler(bookingSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	reportsH := handler.NewReportsHandler(reportSvc, dashboardSvc, dispatcher)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleOwner, model.RoleAdmin, model.RoleEmp)
	adminUp := middleware.RequireRole(model.RoleOwner, model.RoleAdmin)
	ownerOnly := middleware.RequireRole(model.RoleOwner)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/auth/logout", authH.Logout)
		v1.GET("/auth/me", authH.Me)
		v1.PUT("/users/me/password", usersH.ChangePassword)

		// User administration, owner only
		users := v1.Group("/users", ownerOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PATCH("/:id", usersH.Update)
		}

		// Catalog reads for every role; product writes need admin
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		products := v1.Group("/products", adminUp)
		{
			products.POST("", productsH.Create)
			products.PATCH("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Deactivate)
		}

		inv := v1.Group("/inventory")
		{
			inv.GET("/stock", anyRole, inventoryH.Stock)
			inv.GET("/movements", adminUp, inventoryH.Movements)
			inv.POST("/purchase", adminUp, inventoryH.Purchase)
			inv.POST("/adjust", adminUp, inventoryH.Adjust)
			inv.POST("/resync", adminUp, inventoryH.Resync)
		}

		v1.POST("/sales", anyRole, salesH.Create)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id", anyRole, salesH.Get)

		v1.POST("/bookings", anyRole, bookingsH.Create)
		v1.GET("/bookings", anyRole, bookingsH.Agenda)
		v1.POST("/bookings/:id/charge", anyRole, bookingsH.Charge)
		v1.POST("/bookings/:id/cancel", anyRole, bookingsH.Cancel)

		v1.GET("/courts", anyRole, catalogH.Courts)
		v1.GET("/payment-methods", anyRole, catalogH.PaymentMethods)

		// Reporting, admin and owner
		reports := v1.Group("/reports", adminUp)
		{
			reports.GET("/daily", reportsH.Daily)
			reports.GET("/range", reportsH.Range)
			reports.GET("/export.csv", reportsH.ExportCSV)
			reports.GET("/export.pdf", reportsH.ExportPDF)
			reports.POST("/email", reportsH.EmailDaily)
		}
		v1.GET("/dashboard", adminUp, reportsH.Dashboard)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, syncSvc
}
