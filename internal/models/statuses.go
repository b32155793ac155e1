package models

// UserRole - роль пользователя в системе
type UserRole string

const (
	UserRoleGeneral UserRole = "general" // гость отеля
	UserRoleAdmin   UserRole = "admin"   // суперадминистратор платформы
	UserRoleManager UserRole = "manager" // менеджер конкретных отелей
	UserRoleTemp    UserRole = "temp"    // временный пользователь, привязанный к чек-ину
)

// Valid проверяет, что роль известна
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleGeneral, UserRoleAdmin, UserRoleManager, UserRoleTemp:
		return true
	}
	return false
}

// IsStaff - менеджер или администратор
func (r UserRole) IsStaff() bool {
	return r == UserRoleAdmin || r == UserRoleManager
}

// IsGuestRole - роли, выступающие в чате на стороне гостя
func (r UserRole) IsGuestRole() bool {
	return r == UserRoleGeneral || r == UserRoleTemp
}

// NotificationType - тип уведомления
type NotificationType string

const (
	NotificationTypeEvent        NotificationType = "EVENT"        // всем гостям платформы
	NotificationTypeAnnouncement NotificationType = "ANNOUNCEMENT" // активным чек-инам отеля
	NotificationTypeMessage      NotificationType = "MESSAGE"      // конкретному получателю (чат)
)

// Valid проверяет, что тип уведомления известен
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeEvent, NotificationTypeAnnouncement, NotificationTypeMessage:
		return true
	}
	return false
}
