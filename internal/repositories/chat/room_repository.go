package chat

import (
	"errors"

	"stayhub_backend/internal/models/chat"

	"gorm.io/gorm"
)

var ErrRoomNotFound = errors.New("chat room not found")

type RoomRepository interface {
	Create(room *chat.ChatRoom) error
	FindByID(id string) (*chat.ChatRoom, error)
	FindByCheckIn(checkInID string) (*chat.ChatRoom, error)
	// FindActiveByProperties - активные комнаты отелей (дашборд персонала)
	FindActiveByProperties(propertyIDs []string) ([]chat.ChatRoom, error)
	SetAnswered(roomID string, answered bool) error
	// DeactivateByCheckIn выключает комнату чек-ина ровно один раз;
	// возвращает id выключенной комнаты или ErrRoomNotFound
	DeactivateByCheckIn(checkInID string) (string, error)
}

type RoomRepositoryImpl struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &RoomRepositoryImpl{db: db}
}

func (r *RoomRepositoryImpl) Create(room *chat.ChatRoom) error {
	return r.db.Create(room).Error
}

func (r *RoomRepositoryImpl) FindByID(id string) (*chat.ChatRoom, error) {
	var room chat.ChatRoom
	err := r.db.First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepositoryImpl) FindByCheckIn(checkInID string) (*chat.ChatRoom, error) {
	var room chat.ChatRoom
	err := r.db.First(&room, "check_in_id = ?", checkInID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepositoryImpl) FindActiveByProperties(propertyIDs []string) ([]chat.ChatRoom, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	var rooms []chat.ChatRoom
	err := r.db.Where("property_id IN ? AND is_active = true", propertyIDs).
		Order("created_at desc").
		Find(&rooms).Error
	return rooms, err
}

func (r *RoomRepositoryImpl) SetAnswered(roomID string, answered bool) error {
	result := r.db.Model(&chat.ChatRoom{}).
		Where("id = ?", roomID).
		Update("is_answered", answered)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepositoryImpl) DeactivateByCheckIn(checkInID string) (string, error) {
	var room chat.ChatRoom
	err := r.db.First(&room, "check_in_id = ? AND is_active = true", checkInID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRoomNotFound
		}
		return "", err
	}

	err = r.db.Model(&chat.ChatRoom{}).
		Where("id = ? AND is_active = true", room.ID).
		Update("is_active", false).Error
	if err != nil {
		return "", err
	}
	return room.ID, nil
}
