package chat

import "time"

// ChatRoomParticipant - закладка "последнее прочитанное" на пару
// (комната, пользователь). Создается при первом открытии комнаты,
// обновляется при каждом просмотре, никогда не удаляется.
// LastReadAt=nil означает "все сообщения непрочитаны".
type ChatRoomParticipant struct {
	ID         string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ChatRoomID string     `gorm:"type:uuid;not null;uniqueIndex:idx_room_user,priority:1" json:"chat_room_id"`
	UserID     string     `gorm:"type:uuid;not null;uniqueIndex:idx_room_user,priority:2" json:"user_id"`
	LastReadAt *time.Time `json:"last_read_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChatRoomParticipant) TableName() string {
	return "chat_room_participants"
}
