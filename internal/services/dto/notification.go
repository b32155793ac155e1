package dto

// DispatchNotificationRequest - публикация уведомления персоналом.
// EVENT не требует адресации, ANNOUNCEMENT требует property_id,
// MESSAGE требует target_user_id (используется чатом).
type DispatchNotificationRequest struct {
	Type       string  `json:"type" validate:"required,is-notification-type"`
	Title      string  `json:"title" validate:"required,max=200"`
	Content    string  `json:"content" validate:"required"`
	PropertyID *string `json:"property_id" validate:"omitempty,uuid"`
	TargetUser *string `json:"target_user_id" validate:"omitempty,uuid"`
	ChatRoomID *string `json:"chat_room_id" validate:"omitempty,uuid"`
}

type NotificationResponse struct {
	ID               string  `json:"id"`
	SenderID         string  `json:"sender_id"`
	SenderName       string  `json:"sender_name,omitempty"`
	Title            string  `json:"title"`
	Content          string  `json:"content"`
	NotificationType string  `json:"notification_type"`
	ChatRoom         *string `json:"chat_room,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}
