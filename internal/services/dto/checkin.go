package dto

// CreateCheckInRequest - заселение гостя менеджером
type CreateCheckInRequest struct {
	UserEmail    string `json:"user_email" validate:"required,email"`
	HotelRoomID  string `json:"hotel_room_id" validate:"required,uuid"`
	CheckInDate  string `json:"check_in_date" validate:"required"`
	CheckOutDate string `json:"check_out_date" validate:"required"`
	IsDayUse     bool   `json:"is_day_use"`
}

type CheckInResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	GuestName    string `json:"guest_name,omitempty"`
	PropertyID   string `json:"property_id"`
	HotelRoomID  string `json:"hotel_room_id"`
	RoomNumber   string `json:"room_number,omitempty"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	TempCode     string `json:"temp_code,omitempty"`
	CheckedOut   bool   `json:"checked_out"`
	IsDayUse     bool   `json:"is_day_use"`
	ChatRoomID   string `json:"chat_room_id,omitempty"`
}
