package app

import (
	"context"
	"fmt"
	"time"

	"jobboard_backend/database"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/handlers"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/payment"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/routes"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/storage"
	"jobboard_backend/internal/validator"
	"jobboard_backend/internal/workers"
	"jobboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	apperrors.SetDebug(cfg.Server.Env == "development")
	auth.Configure(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	container, err := initializeServices(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}

	if err := container.UserService.EnsureFirstAdmin(context.Background(), gormDB, cfg.FirstAdmin.Email, cfg.FirstAdmin.Password); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	workers.NewPaymentWorker(gormDB, repositories.NewPaymentRepository()).Start(ctx)

	ginRouter := SetupRouter(cfg, gormDB, container)
	ginRouter.Static("/uploads", cfg.Storage.BasePath)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the gin engine with middleware and every route.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, container *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(cfg, container)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Payment.FrontendURL))
	router.Use(middleware.DBMiddleware(gormDB))

	routes.RegisterRoutes(router, appHandlers)
	return router
}

func initializeServices(cfg *config.Config) (*services.ServiceContainer, error) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:     "local",
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "path", cfg.Storage.BasePath)

	smtp := &email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}
	if !smtp.Enabled() {
		logger.Warn("SMTP is not configured, emails will only be logged")
	}

	gateway := payment.NewSSLCommerzClient(cfg.Payment.StoreID, cfg.Payment.StorePass, cfg.Payment.Sandbox)

	return services.NewServiceContainer(services.Dependencies{
		Storage:         storageInstance,
		MaxDocumentSize: cfg.Storage.MaxSize,
		EmailProvider:   email.NewProvider(smtp),
		Gateway:         gateway,
		Payment: services.PaymentConfig{
			FeaturePrice: cfg.Payment.FeaturePrice,
			Currency:     cfg.Payment.Currency,
			BackendURL:   cfg.Payment.BackendURL,
			FrontendURL:  cfg.Payment.FrontendURL,
		},
	}), nil
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(baseHandler, container.AuthService),
		UserHandler:        handlers.NewUserHandler(baseHandler, container.UserService),
		JobHandler:         handlers.NewJobHandler(baseHandler, container.JobService, cfg.Jobs.PublicRead),
		CategoryHandler:    handlers.NewCategoryHandler(baseHandler, container.CategoryService, cfg.Jobs.PublicRead),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, container.ApplicationService),
		ReviewHandler:      handlers.NewReviewHandler(baseHandler, container.ReviewService),
		DashboardHandler:   handlers.NewDashboardHandler(baseHandler, container.DashboardService),
		PaymentHandler:     handlers.NewPaymentHandler(baseHandler, container.PaymentService),
	}
}
