package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-retail-pos/internal/config"
	"go-retail-pos/internal/handler"
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/database"
	"go-retail-pos/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load env + config
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to init logger: ", err)
	}
	defer zlog.Sync()

	// 2. Setup database
	db := database.ConnectDB(cfg.Database)
	if err := db.AutoMigrate(
		&model.Role{}, &model.User{},
		&model.Category{}, &model.Supplier{}, &model.Product{},
		&model.Customer{}, &model.Sale{}, &model.SaleLine{},
	); err != nil {
		zlog.Fatal("auto-migrate failed", zap.Error(err))
	}
	zlog.Info("database connection established")

	// 3. Bootstrap roles and the default admin account
	seedRolesAndAdmin(db, zlog)

	// 4. Websocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency injection (wiring layers)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, roleRepo)
	catalogService := service.NewCatalogService(categoryRepo, supplierRepo, productRepo, wsHub)
	customerService := service.NewCustomerService(customerRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, customerRepo, db, wsHub)
	reportService := service.NewReportService(saleRepo, productRepo, categoryRepo, supplierRepo, customerRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	customerHandler := handler.NewCustomerHandler(customerService)
	saleHandler := handler.NewSaleHandler(saleService)
	reportHandler := handler.NewReportHandler(reportService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Retail POS v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	employees := []string{model.RoleVendor, model.RoleManager, model.RoleAdministrator}
	managers := []string{model.RoleManager, model.RoleAdministrator}
	admins := []string{model.RoleAdministrator}

	// Dashboard + report
	protected.Get("/dashboard/stats", middleware.RequireRole(employees...), reportHandler.GetDashboardStats)
	protected.Get("/reports/sales", middleware.RequireRole(employees...), reportHandler.GetDailySalesReport)

	// Categories (all roles may list, like the original screens)
	protected.Get("/categories", catalogHandler.GetCategories)
	protected.Post("/categories", middleware.RequireRole(managers...), catalogHandler.CreateCategory)
	protected.Put("/categories/:id", middleware.RequireRole(managers...), catalogHandler.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequireRole(admins...), catalogHandler.DeleteCategory)

	// Suppliers
	protected.Get("/suppliers", middleware.RequireRole(employees...), catalogHandler.GetSuppliers)
	protected.Post("/suppliers", middleware.RequireRole(managers...), catalogHandler.CreateSupplier)
	protected.Put("/suppliers/:id", middleware.RequireRole(managers...), catalogHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", middleware.RequireRole(admins...), catalogHandler.DeleteSupplier)

	// Products
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Post("/products", middleware.RequireRole(managers...), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireRole(managers...), catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireRole(admins...), catalogHandler.DeleteProduct)

	// Customers
	protected.Get("/customers", middleware.RequireRole(employees...), customerHandler.GetCustomers)
	protected.Get("/customers/:id", middleware.RequireRole(employees...), customerHandler.GetCustomer)
	protected.Post("/customers", middleware.RequireRole(managers...), customerHandler.CreateCustomer)
	protected.Put("/customers/:id", middleware.RequireRole(managers...), customerHandler.UpdateCustomer)
	protected.Delete("/customers/:id", middleware.RequireRole(admins...), customerHandler.DeleteCustomer)

	// Sales
	protected.Get("/sales", middleware.RequireRole(employees...), saleHandler.GetSales)
	protected.Get("/sales/:id", middleware.RequireRole(employees...), saleHandler.GetSale)
	protected.Post("/sales", middleware.RequireRole(employees...), saleHandler.RegisterSale)
	protected.Put("/sales/:id/lines/:lineId", middleware.RequireRole(managers...), saleHandler.UpdateSaleLine)
	protected.Delete("/sales/:id/lines/:lineId", middleware.RequireRole(admins...), saleHandler.DeleteSaleLine)
	protected.Delete("/sales/:id", middleware.RequireRole(admins...), saleHandler.DeleteSale)

	// Customer self-service
	protected.Get("/my/sales", middleware.RequireRole(model.RoleCustomer), saleHandler.GetMySales)
	protected.Get("/my/sales/:id", middleware.RequireRole(model.RoleCustomer), saleHandler.GetMySale)

	// User management (administrators only)
	protected.Get("/users", middleware.RequireRole(admins...), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequireRole(admins...), userHandler.GetUser)
	protected.Post("/users", middleware.RequireRole(admins...), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequireRole(admins...), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequireRole(admins...), userHandler.DeleteUser)

	// Roles
	protected.Get("/roles", roleHandler.GetRoles)

	// Websocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful shutdown
	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exited")
}

// seedRolesAndAdmin creates the default roles and admin user if they don't exist
func seedRolesAndAdmin(db *gorm.DB, zlog *zap.Logger) {
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := roleRepo.SeedDefaults(); err != nil {
		zlog.Warn("failed to seed roles", zap.Error(err))
	}

	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		adminRole, err := roleRepo.FindByCode(model.RoleAdministrator)
		if err != nil {
			zlog.Warn("administrator role missing, skipping admin bootstrap", zap.Error(err))
			return
		}

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Administrator",
			RoleID:      &adminRole.ID,
			IsActive:    true,
			IsSuperuser: true,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		if err := admin.SetPassword(password); err != nil {
			zlog.Warn("failed to hash admin password", zap.Error(err))
			return
		}

		if err := userRepo.Create(admin); err != nil {
			zlog.Warn("failed to create admin user", zap.Error(err))
		} else {
			zlog.Info("admin user created", zap.String("email", admin.Email))
		}
	}
}
