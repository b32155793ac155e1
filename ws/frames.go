package ws

import (
	"time"

	"stayhub_backend/internal/models"
	"stayhub_backend/internal/models/chat"
)

// Входящий кадр мультиплексного сокета.
type InboundFrame struct {
	Target   string  `json:"target"`
	Content  *string `json:"content,omitempty"`
	FileURL  *string `json:"file_url,omitempty"`
	FileName *string `json:"file_name,omitempty"`
	FileType *string `json:"file_type,omitempty"`
}

const (
	TargetChat    = "chat"
	TargetManager = "manager"
)

// AckFrame подтверждает подключение и перечисляет принятые подписки.
type AckFrame struct {
	Message      string   `json:"message"`
	JoinedGroups []string `json:"joined_groups"`
}

// ErrorFrame уходит только отправителю, не прерывая соединение.
type ErrorFrame struct {
	Error string `json:"error"`
}

// ChatFrame — сообщение чата, как его видят подписчики комнаты
// и менеджерской группы.
type ChatFrame struct {
	Type              string  `json:"type"`
	MessageID         string  `json:"message_id"`
	Sender            string  `json:"sender"`
	SenderName        string  `json:"sender_name"`
	Content           *string `json:"content"`
	TranslatedContent *string `json:"translated_content,omitempty"`
	FileURL           *string `json:"file_url,omitempty"`
	FileName          *string `json:"file_name,omitempty"`
	FileType          *string `json:"file_type,omitempty"`
	CreatedAtDate     string  `json:"created_at_date"`
	CreatedAtTime     string  `json:"created_at_time"`
	ChatRoom          string  `json:"chat_room,omitempty"`
}

// NotificationFrame — push в персональную группу получателя.
type NotificationFrame struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Content          string  `json:"content"`
	NotificationType string  `json:"notification_type"`
	ChatRoom         *string `json:"chat_room,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

const chatFrameType = "multiplex_message"

func newChatFrame(msg *chat.Message, sender *models.User, chatRoom string) ChatFrame {
	local := msg.CreatedAt.Local()
	return ChatFrame{
		Type:              chatFrameType,
		MessageID:         msg.ID,
		Sender:            sender.ID,
		SenderName:        sender.Name,
		Content:           msg.Content,
		TranslatedContent: msg.TranslatedContent,
		FileURL:           msg.FileURL,
		FileName:          msg.FileName,
		FileType:          msg.FileType,
		CreatedAtDate:     local.Format("2006-01-02"),
		CreatedAtTime:     local.Format("15:04"),
		ChatRoom:          chatRoom,
	}
}

// NewNotificationFrame собирает push-кадр уведомления.
func NewNotificationFrame(n *models.Notification) NotificationFrame {
	return NotificationFrame{
		ID:               n.ID,
		Title:            n.Title,
		Content:          n.Content,
		NotificationType: string(n.Type),
		ChatRoom:         n.ChatRoomID,
		CreatedAt:        n.CreatedAt.Local().Format(time.RFC3339),
	}
}
