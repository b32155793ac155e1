package dto

// CreatePropertyRequest - создание отеля администратором
type CreatePropertyRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=200"`
	Address   string   `json:"address" validate:"required,max=300"`
	Phone     string   `json:"phone" validate:"omitempty,max=30"`
	Amenities []string `json:"amenities" validate:"omitempty,dive,max=100"`
}

type UpdatePropertyRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Address   *string  `json:"address" validate:"omitempty,max=300"`
	Phone     *string  `json:"phone" validate:"omitempty,max=30"`
	Amenities []string `json:"amenities" validate:"omitempty,dive,max=100"`
}

type PropertyResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Address   string              `json:"address"`
	Phone     string              `json:"phone,omitempty"`
	Amenities []string            `json:"amenities,omitempty"`
	Rooms     []HotelRoomResponse `json:"rooms,omitempty"`
}

// CreateHotelRoomRequest - номер внутри отеля
type CreateHotelRoomRequest struct {
	RoomNumber string `json:"room_number" validate:"required,max=20"`
	Floor      int    `json:"floor" validate:"omitempty,min=0"`
	Capacity   int    `json:"capacity" validate:"omitempty,min=1"`
}

type HotelRoomResponse struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	RoomNumber string `json:"room_number"`
	Floor      int    `json:"floor"`
	Capacity   int    `json:"capacity"`
}

// AssignManagerRequest - назначение менеджера отеля
type AssignManagerRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}
