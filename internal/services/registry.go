package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	PropertyService     PropertyService
	CheckInService      CheckInService
	ChatService         ChatService
	NotificationService NotificationService
}
