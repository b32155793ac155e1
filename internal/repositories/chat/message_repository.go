package chat

import (
	"errors"
	"time"

	"stayhub_backend/internal/models/chat"

	"gorm.io/gorm"
)

type MessageRepository interface {
	// CreateWithAnswerReset сохраняет сообщение и, при resetAnswered,
	// сбрасывает is_answered комнаты - одной транзакцией
	CreateWithAnswerReset(msg *chat.Message, resetAnswered bool) error
	ListByRoom(roomID string) ([]chat.Message, error)
	CountByRoom(roomID string) (int64, error)
	// CountAfter - сообщения строго новее отметки; after=nil считает все
	CountAfter(roomID string, after *time.Time) (int64, error)
	LastByRoom(roomID string) (*chat.Message, error)
}

type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) CreateWithAnswerReset(msg *chat.Message, resetAnswered bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if resetAnswered {
			return tx.Model(&chat.ChatRoom{}).
				Where("id = ?", msg.ChatRoomID).
				Update("is_answered", false).Error
		}
		return nil
	})
}

func (r *MessageRepositoryImpl) ListByRoom(roomID string) ([]chat.Message, error) {
	var messages []chat.Message
	err := r.db.Where("chat_room_id = ?", roomID).
		Order("created_at asc").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) CountByRoom(roomID string) (int64, error) {
	var count int64
	err := r.db.Model(&chat.Message{}).Where("chat_room_id = ?", roomID).Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) CountAfter(roomID string, after *time.Time) (int64, error) {
	query := r.db.Model(&chat.Message{}).Where("chat_room_id = ?", roomID)
	if after != nil {
		query = query.Where("created_at > ?", *after)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) LastByRoom(roomID string) (*chat.Message, error) {
	var msg chat.Message
	err := r.db.Where("chat_room_id = ?", roomID).
		Order("created_at desc").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}
