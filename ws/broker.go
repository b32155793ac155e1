package ws

import "fmt"

// Broker раздаёт кадры по именованным группам. Реализация по умолчанию —
// Manager, но сервисы зависят только от этого интерфейса.
type Broker interface {
	Join(group string, c *Client)
	Leave(group string, c *Client)
	// Publish отправляет кадр всем участникам группы. Пустая группа — no-op.
	Publish(group string, frame any)
	GroupSize(group string) int
}

// Имена групп. Все подписки в системе сводятся к этим трём видам.
func RoomGroup(roomID string) string          { return fmt.Sprintf("room:%s", roomID) }
func ManagerGroup(propertyID string) string   { return fmt.Sprintf("manager:%s", propertyID) }
func NotificationsGroup(userID string) string { return fmt.Sprintf("notifications:%s", userID) }
