package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"stayhub_backend/internal/config"
	"stayhub_backend/internal/logger"
	"stayhub_backend/internal/models"
	chatmodels "stayhub_backend/internal/models/chat"
)

// Connect открывает подключение GORM по драйверу из конфигурации
// (postgres или mysql)
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.Database.DSN)
	case "postgres", "":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("неизвестный драйвер БД: %s", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.HotelRoom{},
		&models.CheckIn{},
		&models.Notification{},
		&models.NotificationReadStatus{},
		// chat модуль
		&chatmodels.ChatRoom{},
		&chatmodels.ChatRoomParticipant{},
		&chatmodels.Message{},
	)
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	logger.Info("AutoMigrate завершен")
	return nil
}
