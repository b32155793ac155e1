package repositories

import (
	"errors"

	"stayhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPropertyNotFound = errors.New("property not found")

type PropertyRepository interface {
	Create(property *models.Property) error
	FindByID(id string) (*models.Property, error)
	List() ([]models.Property, error)
	Update(property *models.Property) error

	// Менеджеры отеля - основа авторизации manager-групп
	AddManager(propertyID, userID string) error
	RemoveManager(propertyID, userID string) error
	IsManagerOf(userID, propertyID string) (bool, error)
	FindManagedPropertyIDs(userID string) ([]string, error)

	CreateRoom(room *models.HotelRoom) error
	FindRoomByID(id string) (*models.HotelRoom, error)
	FindRoomsByProperty(propertyID string) ([]models.HotelRoom, error)
}

type PropertyRepositoryImpl struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &PropertyRepositoryImpl{db: db}
}

func (r *PropertyRepositoryImpl) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

func (r *PropertyRepositoryImpl) FindByID(id string) (*models.Property, error) {
	var property models.Property
	err := r.db.First(&property, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepositoryImpl) List() ([]models.Property, error) {
	var properties []models.Property
	err := r.db.Order("name asc").Find(&properties).Error
	return properties, err
}

func (r *PropertyRepositoryImpl) Update(property *models.Property) error {
	return r.db.Save(property).Error
}

func (r *PropertyRepositoryImpl) AddManager(propertyID, userID string) error {
	return r.db.Exec(
		`INSERT INTO property_managers (property_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		propertyID, userID,
	).Error
}

func (r *PropertyRepositoryImpl) RemoveManager(propertyID, userID string) error {
	return r.db.Exec(
		`DELETE FROM property_managers WHERE property_id = ? AND user_id = ?`,
		propertyID, userID,
	).Error
}

func (r *PropertyRepositoryImpl) IsManagerOf(userID, propertyID string) (bool, error) {
	var count int64
	err := r.db.Table("property_managers").
		Where("property_id = ? AND user_id = ?", propertyID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *PropertyRepositoryImpl) FindManagedPropertyIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Table("property_managers").
		Where("user_id = ?", userID).
		Pluck("property_id", &ids).Error
	return ids, err
}

func (r *PropertyRepositoryImpl) CreateRoom(room *models.HotelRoom) error {
	return r.db.Create(room).Error
}

func (r *PropertyRepositoryImpl) FindRoomByID(id string) (*models.HotelRoom, error) {
	var room models.HotelRoom
	err := r.db.First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *PropertyRepositoryImpl) FindRoomsByProperty(propertyID string) ([]models.HotelRoom, error) {
	var rooms []models.HotelRoom
	err := r.db.Where("property_id = ?", propertyID).Order("room_number asc").Find(&rooms).Error
	return rooms, err
}
