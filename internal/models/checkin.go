package models

import (
	"time"
)

// CheckIn - активное проживание гостя. Пока CheckedOut=false, чек-ин
// определяет членство гостя в его чат-комнате.
type CheckIn struct {
	BaseModel
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
	HotelRoomID string `gorm:"type:uuid;not null;index" json:"hotel_room_id"`
	// Денормализовано из HotelRoom для выборок "активные чек-ины отеля"
	PropertyID string `gorm:"type:uuid;not null;index" json:"property_id"`

	CheckInDate  time.Time `gorm:"not null" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"not null" json:"check_out_date"`

	// Временный код для входа временных пользователей (киоск на ресепшене)
	TempCode string `gorm:"type:varchar(6);uniqueIndex" json:"temp_code"`

	CheckedOut bool `gorm:"default:false;index" json:"checked_out"`
	IsDayUse   bool `gorm:"default:false" json:"is_day_use"`

	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	HotelRoom *HotelRoom `gorm:"foreignKey:HotelRoomID" json:"hotel_room,omitempty"`
}
