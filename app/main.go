package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/listeners"
	"inventory-system/internal/repositories"
	"inventory-system/internal/routes"
	"inventory-system/migrations"
	"inventory-system/pkg/api"
	"inventory-system/pkg/config"
	"inventory-system/pkg/customvalidator"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/keylock"
	applogger "inventory-system/pkg/logger"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"

	inventoryservices "inventory-system/internal/services"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				api.ErrorResponse(c, httpErr)
			}
			return err
		},
	}))
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestLogger(logger))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("failed to register custom validations", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	ctx := context.Background()
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := migrations.Up(dbConn); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, 24*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, logger)

	// Repositories.
	txManager := repositories.NewTxManager(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	employeeRepo := repositories.NewEmployeeRepository(dbConn)
	assignmentRepo := repositories.NewAssignmentRepository(dbConn)
	maintenanceRepo := repositories.NewMaintenanceRepository(dbConn)
	checkRepo := repositories.NewInventoryCheckRepository(dbConn)
	auditRepo := repositories.NewAuditRepository(dbConn)
	dashboardRepo := repositories.NewDashboardRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// One lock table for the whole process: every mutating path shares it.
	locks := keylock.New(cfg.Inventory.LockTimeout)
	guard := inventoryservices.NewEquipmentGuard(locks, txManager, equipmentRepo)
	bus := eventbus.New(logger)
	clock := inventoryservices.SystemClock()

	// Services.
	assignmentService := inventoryservices.NewAssignmentService(
		guard, equipmentRepo, employeeRepo, assignmentRepo, auditRepo, bus, clock, logger)
	equipmentService := inventoryservices.NewEquipmentService(
		guard, equipmentRepo, assignmentRepo, maintenanceRepo, auditRepo, bus, clock, logger)
	employeeService := inventoryservices.NewEmployeeService(
		txManager, employeeRepo, assignmentRepo, auditRepo, logger)
	maintenanceService := inventoryservices.NewMaintenanceService(
		guard, equipmentRepo, assignmentRepo, maintenanceRepo, auditRepo, bus, clock, logger)
	checkService := inventoryservices.NewInventoryCheckService(
		txManager, equipmentRepo, checkRepo, auditRepo, clock, logger)
	importService := inventoryservices.NewImportService(
		guard, equipmentRepo, employeeRepo, auditRepo, assignmentService, bus, logger)
	dashboardService := inventoryservices.NewDashboardService(
		dashboardRepo, assignmentRepo, checkRepo, employeeRepo, cacheRepo,
		cfg.Inventory.DashboardCacheTTL, cfg.Inventory.DashboardRecentLimit, clock, logger)
	qrService := inventoryservices.NewQRService(equipmentService, employeeService, logger)
	auditService := inventoryservices.NewAuditService(auditRepo, logger)

	listeners.NewCacheListener(dashboardService, logger).Register(bus)

	// Controllers and routes.
	routes.RegisterEquipmentRoutes(e, controllers.NewEquipmentController(equipmentService, logger), authMiddleware)
	routes.RegisterEmployeeRoutes(e, controllers.NewEmployeeController(employeeService, logger), authMiddleware)
	routes.RegisterAssignmentRoutes(e, controllers.NewAssignmentController(assignmentService, logger), authMiddleware)
	routes.RegisterMaintenanceRoutes(e, controllers.NewMaintenanceController(maintenanceService, logger), authMiddleware)
	routes.RegisterInventoryCheckRoutes(e, controllers.NewInventoryCheckController(checkService, logger), authMiddleware)
	routes.RegisterImportRoutes(e, controllers.NewImportController(importService, logger), authMiddleware)
	routes.RegisterDashboardRoutes(e, controllers.NewDashboardController(dashboardService, logger), authMiddleware)
	routes.RegisterQRRoutes(e, controllers.NewQRController(qrService, logger), authMiddleware)
	routes.RegisterAuditRoutes(e, controllers.NewAuditController(auditService, logger), authMiddleware)

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
