package chat

import "time"

// Message - неизменяемое сообщение чата. Content=nil допустим для
// сообщений, состоящих только из вложения. Перевод вычисляется один
// раз при создании и кэшируется в TranslatedContent.
type Message struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ChatRoomID string `gorm:"type:uuid;not null;index" json:"chat_room_id"`
	SenderID   string `gorm:"type:uuid;not null;index" json:"sender_id"`

	Content           *string `gorm:"type:text" json:"content"`
	TranslatedContent *string `gorm:"type:text" json:"translated_content"`

	FileURL  *string `json:"file_url"`
	FileName *string `json:"file_name"`
	FileType *string `json:"file_type"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Message) TableName() string {
	return "chat_messages"
}

// HasContent - есть ли у сообщения текст (не только вложение)
func (m *Message) HasContent() bool {
	return m.Content != nil && *m.Content != ""
}
