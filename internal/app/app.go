package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"stayhub_backend/database"
	"stayhub_backend/internal/access"
	"stayhub_backend/internal/config"
	"stayhub_backend/internal/handlers"
	"stayhub_backend/internal/logger"
	"stayhub_backend/internal/middleware"
	"stayhub_backend/internal/models"
	"stayhub_backend/internal/repositories"
	chatrepo "stayhub_backend/internal/repositories/chat"
	"stayhub_backend/internal/routes"
	"stayhub_backend/internal/services"
	"stayhub_backend/internal/storage"
	"stayhub_backend/internal/translate"
	"stayhub_backend/internal/utils"
	"stayhub_backend/internal/validator"
	"stayhub_backend/internal/workers"
	"stayhub_backend/ws"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected", "driver", cfg.Database.Driver)

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, serviceContainer := SetupRouter(cfg, gormDB)

	// Фоновое выселение гостей с истекшей датой выезда
	worker := workers.NewCheckoutWorker(
		serviceContainer.CheckInService,
		time.Duration(cfg.Checkout.ScanIntervalMin)*time.Minute,
	)
	worker.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	storageInstance, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "base_path", cfg.Storage.BasePath)

	// 1. Сервисы и websocket-контур
	serviceContainer, wsHandler := initializeServices(cfg, gormDB, storageInstance)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Gin
	ginRouter := initializeGinRouter()

	// Раздача файлов чата из локального хранилища
	ginRouter.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage) (*services.ServiceContainer, *ws.Handler) {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository(gormDB)
	propertyRepo := repositories.NewPropertyRepository(gormDB)
	checkInRepo := repositories.NewCheckInRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	roomRepo := chatrepo.NewRoomRepository(gormDB)
	messageRepo := chatrepo.NewMessageRepository(gormDB)
	participantRepo := chatrepo.NewParticipantRepository(gormDB)

	evaluator := access.NewEvaluator(checkInRepo, propertyRepo)

	deepl := translate.NewDeepLClient(cfg.Translation.Endpoint, cfg.Translation.APIKey)
	gateway := translate.NewGateway(
		deepl,
		cfg.Translation.DefaultLang,
		time.Duration(cfg.Translation.TimeoutSec)*time.Second,
		cfg.Translation.MaxWorkers,
	)

	emailSender := utils.NewEmailSender(cfg)

	// --- Сервисы ---
	authService := services.NewAuthService(userRepo, checkInRepo, emailSender)
	propertyService := services.NewPropertyService(propertyRepo, userRepo)
	chatService := services.NewChatService(
		roomRepo, messageRepo, participantRepo,
		checkInRepo, userRepo, propertyRepo,
		evaluator, storageInstance, cfg.Storage.MaxSize,
	)
	checkInService := services.NewCheckInService(checkInRepo, userRepo, propertyRepo, chatService)

	// --- WebSocket-контур ---
	// Менеджер групп служит брокером рассылки и для чата, и для уведомлений
	wsManager := ws.NewManager()
	notificationService := services.NewNotificationService(notificationRepo, userRepo, checkInRepo, wsManager)
	chatFlow := ws.NewChatFlow(
		roomRepo, messageRepo, checkInRepo, userRepo,
		gateway, wsManager, notificationService,
	)
	wsHandler := ws.NewHandler(wsManager, chatFlow, evaluator, roomRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		PropertyService:     propertyService,
		CheckInService:      checkInService,
		ChatService:         chatService,
		NotificationService: notificationService,
	}, wsHandler
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		PropertyHandler:     handlers.NewPropertyHandler(baseHandler, services.PropertyService),
		CheckInHandler:      handlers.NewCheckInHandler(baseHandler, services.CheckInService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, services.ChatService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:         adminEmail,
		PasswordHash:  string(hashedPassword),
		Name:          "Administrator",
		Role:          models.UserRoleAdmin,
		Language:      cfg.Translation.DefaultLang,
		EmailVerified: true,
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
