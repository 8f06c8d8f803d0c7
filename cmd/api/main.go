// @title           Rental & Purchase Transactional Engine API
// @version         1.0.0
// @description     Inventory ledger, rental and purchase/returns engine (Go, Gin, database/sql, Clean Architecture)
// @BasePath        /api/v1
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization

package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/SimpleBookRental/backend/docs"
	"github.com/SimpleBookRental/backend/internal/api"
	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/internal/eventlog"
	"github.com/SimpleBookRental/backend/internal/inspection"
	"github.com/SimpleBookRental/backend/internal/ledger"
	"github.com/SimpleBookRental/backend/internal/masterdata"
	"github.com/SimpleBookRental/backend/internal/purchase"
	"github.com/SimpleBookRental/backend/internal/rental"
	"github.com/SimpleBookRental/backend/internal/txn"
	"github.com/SimpleBookRental/backend/internal/txstore"
	"github.com/SimpleBookRental/backend/pkg/auth"
	"github.com/SimpleBookRental/backend/pkg/config"
	"github.com/SimpleBookRental/backend/pkg/database"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLog, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	dbConn, err := database.NewDBConn(&cfg.Database, appLog.Named("database"))
	if err != nil {
		appLog.Fatal("failed to connect to database", err)
	}
	defer dbConn.Close()

	txm := txn.NewManager(dbConn.DB, cfg.Engine.MaxRetries, time.Duration(cfg.Engine.OperationTimeoutSeconds)*time.Second)

	ledgerRepo := ledger.NewRepository(appLog.Named("ledger"))
	txstoreRepo := txstore.NewRepository(appLog.Named("txstore"))
	eventRepo := eventlog.NewRepository(appLog.Named("eventlog"))
	inspectRepo := inspection.NewRepository(appLog.Named("inspection"))
	itemRepo := masterdata.NewItemRepository(appLog.Named("masterdata"))
	customerRepo := masterdata.NewCustomerRepository(appLog.Named("masterdata"))
	supplierRepo := masterdata.NewSupplierRepository(appLog.Named("masterdata"))
	locationRepo := masterdata.NewLocationRepository(appLog.Named("masterdata"))
	customerGate := domain.NewCustomerGate(customerRepo)

	rentalSvc := rental.NewService(
		txm, ledgerRepo, txstoreRepo, eventRepo, inspectRepo, itemRepo,
		customerGate, locationRepo, cfg.Engine, appLog.Named("rental"),
	)
	purchaseSvc := purchase.NewService(
		txm, ledgerRepo, txstoreRepo, eventRepo, inspectRepo, itemRepo,
		supplierRepo, locationRepo, cfg.Engine, appLog.Named("purchase"),
	)

	jwtService := auth.NewJWTService(&cfg.JWT)
	handlers := api.NewHandler(rentalSvc, purchaseSvc, appLog)
	middleware := api.NewMiddleware(jwtService, appLog.Named("middleware"), cfg.RateLimit.Requests, cfg.RateLimit.Duration)

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.RegisterRoutes(router, middleware)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	serverAddr := cfg.Server.GetServerAddress()
	appLog.Info("server starting", zap.String("addr", serverAddr))
	if err := router.Run(serverAddr); err != nil {
		appLog.Fatal("failed to start server", err)
	}
}
