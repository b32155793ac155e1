package models

import (
	"gorm.io/datatypes"
)

// Property - отель/объект размещения. Держит набор менеджеров,
// определяющий доступ к manager-группам чата.
type Property struct {
	BaseModel
	Name    string `gorm:"not null;index" json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`

	// Произвольный список удобств, напр. ["wifi", "parking", "spa"]
	Amenities datatypes.JSON `gorm:"type:jsonb" json:"amenities,omitempty"`

	Managers []User      `gorm:"many2many:property_managers;" json:"-"`
	Rooms    []HotelRoom `gorm:"foreignKey:PropertyID" json:"-"`
}

// HotelRoom - физический номер отеля
type HotelRoom struct {
	BaseModel
	PropertyID string `gorm:"type:uuid;not null;index" json:"property_id"`
	RoomNumber string `gorm:"not null" json:"room_number"`
	Floor      int    `json:"floor"`
	Capacity   int    `gorm:"default:2" json:"capacity"`
}
