package dto

// RoomListItem - строка списка комнат (дашборд персонала и экран гостя)
type RoomListItem struct {
	ID          string           `json:"id"`
	PropertyID  string           `json:"property_id"`
	CheckInID   string           `json:"check_in_id"`
	GuestName   string           `json:"guest_name"`
	RoomNumber  string           `json:"room_number,omitempty"`
	IsActive    bool             `json:"is_active"`
	IsAnswered  bool             `json:"is_answered"`
	UnreadCount int64            `json:"unread_count"`
	LastMessage *MessageResponse `json:"last_message,omitempty"`
}

// MessageResponse - сообщение, сериализованное под роль читателя.
// Персонал видит оригинал и перевод отдельными полями; гостю сообщение
// персонала отдается уже на его языке.
type MessageResponse struct {
	ID                string  `json:"id"`
	SenderID          string  `json:"sender_id"`
	SenderName        string  `json:"sender_name"`
	SenderIsStaff     bool    `json:"sender_is_staff"`
	Content           *string `json:"content"`
	TranslatedContent *string `json:"translated_content,omitempty"`
	FileURL           *string `json:"file_url,omitempty"`
	FileName          *string `json:"file_name,omitempty"`
	FileType          *string `json:"file_type,omitempty"`
	CreatedAtDate     string  `json:"created_at_date"`
	CreatedAtTime     string  `json:"created_at_time"`
}

// MessageGroup - сообщения одного календарного дня
type MessageGroup struct {
	Date     string            `json:"date"`
	Messages []MessageResponse `json:"messages"`
}

// RoomDetailResponse - комната с историей, сгруппированной по дням
type RoomDetailResponse struct {
	ID         string         `json:"id"`
	PropertyID string         `json:"property_id"`
	CheckInID  string         `json:"check_in_id"`
	GuestName  string         `json:"guest_name"`
	IsActive   bool           `json:"is_active"`
	IsAnswered bool           `json:"is_answered"`
	Groups     []MessageGroup `json:"messages_by_date"`
}

// SetAnsweredRequest - пометка комнаты отвеченной/неотвеченной
type SetAnsweredRequest struct {
	IsAnswered bool `json:"is_answered"`
}

type UnreadRoomCountResponse struct {
	UnreadRooms int `json:"unread_rooms"`
}

// UploadResponse - метаданные загруженного вложения
type UploadResponse struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
}
