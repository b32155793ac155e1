package repositories

import (
	"errors"
	"time"

	"stayhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCheckInNotFound = errors.New("check-in not found")

type CheckInRepository interface {
	Create(checkIn *models.CheckIn) error
	FindByID(id string) (*models.CheckIn, error)
	FindByTempCode(code string) (*models.CheckIn, error)
	// FindActiveByUser - текущее проживание гостя (checked_out=false)
	FindActiveByUser(userID string) (*models.CheckIn, error)
	// FindActiveUserIDsByProperty - получатели ANNOUNCEMENT-уведомлений
	FindActiveUserIDsByProperty(propertyID string) ([]string, error)
	// FindOverdue - чек-ины с истекшей датой выезда (для авто-чекаута)
	FindOverdue(now time.Time) ([]models.CheckIn, error)
	MarkCheckedOut(id string) error
	// IsGuestOf реализует access.CheckInSource
	IsGuestOf(checkInID, userID string) (bool, error)
}

type CheckInRepositoryImpl struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &CheckInRepositoryImpl{db: db}
}

func (r *CheckInRepositoryImpl) Create(checkIn *models.CheckIn) error {
	return r.db.Create(checkIn).Error
}

func (r *CheckInRepositoryImpl) FindByID(id string) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	err := r.db.Preload("User").Preload("HotelRoom").First(&checkIn, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckInNotFound
		}
		return nil, err
	}
	return &checkIn, nil
}

func (r *CheckInRepositoryImpl) FindByTempCode(code string) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	err := r.db.First(&checkIn, "temp_code = ? AND checked_out = false", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckInNotFound
		}
		return nil, err
	}
	return &checkIn, nil
}

func (r *CheckInRepositoryImpl) FindActiveByUser(userID string) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	err := r.db.Where("user_id = ? AND checked_out = false", userID).
		Order("created_at desc").
		First(&checkIn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckInNotFound
		}
		return nil, err
	}
	return &checkIn, nil
}

func (r *CheckInRepositoryImpl) FindActiveUserIDsByProperty(propertyID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.CheckIn{}).
		Where("property_id = ? AND checked_out = false", propertyID).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *CheckInRepositoryImpl) FindOverdue(now time.Time) ([]models.CheckIn, error) {
	var checkIns []models.CheckIn
	err := r.db.Where("checked_out = false AND check_out_date < ?", now).Find(&checkIns).Error
	return checkIns, err
}

func (r *CheckInRepositoryImpl) MarkCheckedOut(id string) error {
	result := r.db.Model(&models.CheckIn{}).
		Where("id = ? AND checked_out = false", id).
		Update("checked_out", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCheckInNotFound
	}
	return nil
}

func (r *CheckInRepositoryImpl) IsGuestOf(checkInID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.CheckIn{}).
		Where("id = ? AND user_id = ?", checkInID, userID).
		Count(&count).Error
	return count > 0, err
}
