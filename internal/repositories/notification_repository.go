package repositories

import (
	"errors"
	"time"

	"stayhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	// CreateWithRecipients сохраняет уведомление и bulk-создает
	// read-статусы получателей в одной транзакции: список адресатов
	// не должен потеряться, если упала часть вставок.
	CreateWithRecipients(notification *models.Notification, recipientIDs []string) error

	FindByID(id string) (*models.Notification, error)
	// FindUnreadForUser - непрочитанные уведомления, новые сверху.
	// Схлопывание MESSAGE-пачек делает сервис.
	FindUnreadForUser(userID string) ([]models.Notification, error)

	// MarkRead помечает прочитанным одно уведомление для получателя
	MarkRead(notificationID, recipientID string, at time.Time) error
	// MarkReadBySenderAndRoom помечает прочитанными все MESSAGE-уведомления
	// пары (отправитель, комната) для получателя - схлопывание серии
	// чат-пингов одним действием
	MarkReadBySenderAndRoom(senderID string, chatRoomID *string, recipientID string, at time.Time) error

	UnreadStatuses(userID string) ([]models.NotificationReadStatus, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) CreateWithRecipients(notification *models.Notification, recipientIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(notification).Error; err != nil {
			return err
		}

		if len(recipientIDs) == 0 {
			return nil
		}

		statuses := make([]models.NotificationReadStatus, 0, len(recipientIDs))
		for _, recipientID := range recipientIDs {
			statuses = append(statuses, models.NotificationReadStatus{
				NotificationID: notification.ID,
				RecipientID:    recipientID,
			})
		}
		return tx.CreateInBatches(statuses, 500).Error
	})
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUnreadForUser(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.
		Preload("Sender").
		Joins("JOIN notification_read_statuses nrs ON nrs.notification_id = notifications.id").
		Where("nrs.recipient_id = ? AND nrs.read_at IS NULL", userID).
		Order("notifications.created_at desc").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) MarkRead(notificationID, recipientID string, at time.Time) error {
	return r.db.Model(&models.NotificationReadStatus{}).
		Where("notification_id = ? AND recipient_id = ? AND read_at IS NULL", notificationID, recipientID).
		Update("read_at", at).Error
}

func (r *NotificationRepositoryImpl) MarkReadBySenderAndRoom(senderID string, chatRoomID *string, recipientID string, at time.Time) error {
	sub := r.db.Model(&models.Notification{}).
		Select("id").
		Where("sender_id = ? AND type = ?", senderID, models.NotificationTypeMessage)
	if chatRoomID != nil {
		sub = sub.Where("chat_room_id = ?", *chatRoomID)
	} else {
		sub = sub.Where("chat_room_id IS NULL")
	}

	return r.db.Model(&models.NotificationReadStatus{}).
		Where("recipient_id = ? AND read_at IS NULL AND notification_id IN (?)", recipientID, sub).
		Update("read_at", at).Error
}

func (r *NotificationRepositoryImpl) UnreadStatuses(userID string) ([]models.NotificationReadStatus, error) {
	var statuses []models.NotificationReadStatus
	err := r.db.Where("recipient_id = ? AND read_at IS NULL", userID).Find(&statuses).Error
	return statuses, err
}
