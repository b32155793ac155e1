package chat

import (
	"errors"
	"time"

	"stayhub_backend/internal/models/chat"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ParticipantRepository interface {
	// MarkRead создает или обновляет закладку последнего прочитанного
	MarkRead(roomID, userID string, at time.Time) error
	// Find возвращает nil, nil если пользователь еще не открывал комнату
	Find(roomID, userID string) (*chat.ChatRoomParticipant, error)
}

type ParticipantRepositoryImpl struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &ParticipantRepositoryImpl{db: db}
}

func (r *ParticipantRepositoryImpl) MarkRead(roomID, userID string, at time.Time) error {
	participant := chat.ChatRoomParticipant{
		ChatRoomID: roomID,
		UserID:     userID,
		LastReadAt: &at,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_room_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_read_at", "updated_at"}),
	}).Create(&participant).Error
}

func (r *ParticipantRepositoryImpl) Find(roomID, userID string) (*chat.ChatRoomParticipant, error) {
	var participant chat.ChatRoomParticipant
	err := r.db.First(&participant, "chat_room_id = ? AND user_id = ?", roomID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &participant, nil
}
