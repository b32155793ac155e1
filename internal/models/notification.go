package models

import (
	"time"
)

// Notification - одна запись на логическое уведомление;
// получатели разворачиваются в NotificationReadStatus (bulk-create).
type Notification struct {
	ID       string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SenderID string           `gorm:"type:uuid;not null;index" json:"sender_id"`
	Title    string           `gorm:"not null" json:"title"`
	Content  string           `gorm:"type:text" json:"content"`
	Type     NotificationType `gorm:"type:varchar(20);not null;index" json:"notification_type"`

	// Заполнен только для MESSAGE-уведомлений из чата
	ChatRoomID *string `gorm:"type:uuid;index" json:"chat_room,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`

	Sender       *User                    `gorm:"foreignKey:SenderID" json:"-"`
	ReadStatuses []NotificationReadStatus `gorm:"foreignKey:NotificationID" json:"-"`
}

// NotificationReadStatus - факт доставки уведомления получателю.
// ReadAt=nil означает "не прочитано".
type NotificationReadStatus struct {
	ID             string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	NotificationID string     `gorm:"type:uuid;not null;index:idx_notif_recipient,priority:1" json:"notification_id"`
	RecipientID    string     `gorm:"type:uuid;not null;index:idx_notif_recipient,priority:2" json:"recipient_id"`
	ReadAt         *time.Time `json:"read_at"`
}
