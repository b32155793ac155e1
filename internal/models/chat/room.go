package chat

import "time"

// ChatRoom - диалог гостя с персоналом, привязанный 1:1 к чек-ину.
// После чек-аута IsActive=false: комната читается, но не принимает
// новые гостевые сообщения. Никогда не удаляется.
type ChatRoom struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	PropertyID string `gorm:"type:uuid;not null;index" json:"property_id"`
	// uniqueIndex: не более одной комнаты на чек-ин
	CheckInID string `gorm:"type:uuid;not null;uniqueIndex" json:"check_in_id"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`
	// Сбрасывается в false каждым новым сообщением гостя,
	// выставляется в true только явным действием персонала
	IsAnswered bool `gorm:"default:false" json:"is_answered"`

	CreatedAt time.Time `json:"created_at"`

	Messages     []Message             `gorm:"foreignKey:ChatRoomID" json:"-"`
	Participants []ChatRoomParticipant `gorm:"foreignKey:ChatRoomID" json:"-"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}
