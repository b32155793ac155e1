package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	PropertyHandler     *PropertyHandler
	CheckInHandler      *CheckInHandler
	ChatHandler         *ChatHandler
	NotificationHandler *NotificationHandler
}
