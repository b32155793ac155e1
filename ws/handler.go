package ws

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"stayhub_backend/internal/access"
	"stayhub_backend/internal/auth"
	"stayhub_backend/internal/logger"
	chatrepo "stayhub_backend/internal/repositories/chat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin клиенты (мобильное приложение, дашборд) подключаются
	// с других хостов; доступ контролируется токеном
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler поднимает websocket-соединения: мультиплексный сокет чата
// и персональный сокет уведомлений.
type Handler struct {
	manager   *Manager
	flow      *ChatFlow
	evaluator *access.Evaluator
	rooms     chatrepo.RoomRepository
}

func NewHandler(manager *Manager, flow *ChatFlow, evaluator *access.Evaluator, rooms chatrepo.RoomRepository) *Handler {
	return &Handler{
		manager:   manager,
		flow:      flow,
		evaluator: evaluator,
		rooms:     rooms,
	}
}

// Multiplex обслуживает GET /ws/multiplex?room_id=&property_id=.
// Подписки проверяются политикой доступа до входа в группы; отказ
// уходит error-кадром, после чего соединение закрывается.
func (h *Handler) Multiplex(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Warn("websocket: upgrade не удался")
		return
	}

	claims, ok := h.authenticate(c, conn)
	if !ok {
		return
	}
	sub := access.Subject{UserID: claims.UserID, Role: claims.Role}

	client := NewClient(claims.UserID, claims.Role, conn, h.manager, h.flow)
	joined := make([]string, 0, 2)

	if roomID := c.Query("room_id"); roomID != "" {
		room, err := h.rooms.FindByID(roomID)
		if err != nil {
			if errors.Is(err, chatrepo.ErrRoomNotFound) {
				rejectConn(conn, "комната не найдена")
			} else {
				logger.WithError(err).Error("websocket: не удалось загрузить комнату", "room_id", roomID)
				rejectConn(conn, "internal error")
			}
			return
		}
		allowed, err := h.evaluator.CanAccessRoom(sub, room, access.ActionSubscribe)
		if err != nil {
			logger.WithError(err).Error("websocket: проверка доступа к комнате", "room_id", roomID)
			rejectConn(conn, "internal error")
			return
		}
		if !allowed {
			rejectConn(conn, "доступ к комнате запрещен")
			return
		}
		client.RoomID = roomID
		group := RoomGroup(roomID)
		h.manager.Join(group, client)
		joined = append(joined, group)
	}

	if propertyID := c.Query("property_id"); propertyID != "" {
		allowed, err := h.evaluator.CanSubscribeProperty(sub, propertyID)
		if err != nil {
			logger.WithError(err).Error("websocket: проверка менеджерской подписки", "property_id", propertyID)
			h.manager.LeaveAll(client)
			rejectConn(conn, "internal error")
			return
		}
		if !allowed {
			h.manager.LeaveAll(client)
			rejectConn(conn, "менеджерская подписка запрещена")
			return
		}
		client.PropertyID = propertyID
		group := ManagerGroup(propertyID)
		h.manager.Join(group, client)
		joined = append(joined, group)
	}

	if len(joined) == 0 {
		rejectConn(conn, "не указана ни одна подписка")
		return
	}

	go client.WritePump()
	client.Deliver(AckFrame{Message: "connected", JoinedGroups: joined})
	client.ReadPump(c.Request.Context())
}

// Notifications обслуживает GET /ws/notifications - персональный поток
// push-уведомлений пользователя.
func (h *Handler) Notifications(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Warn("websocket: upgrade не удался")
		return
	}

	claims, ok := h.authenticate(c, conn)
	if !ok {
		return
	}

	client := NewClient(claims.UserID, claims.Role, conn, h.manager, h.flow)
	group := NotificationsGroup(claims.UserID)
	h.manager.Join(group, client)

	go client.WritePump()
	client.Deliver(AckFrame{Message: "connected", JoinedGroups: []string{group}})
	client.ReadPump(c.Request.Context())
}

// authenticate извлекает токен из заголовка Authorization или query-параметра
// token. При отказе соединение получает error-кадр и закрывается.
func (h *Handler) authenticate(c *gin.Context, conn *websocket.Conn) (*auth.Claims, bool) {
	token := bearerToken(c)
	if token == "" {
		rejectConn(conn, "требуется токен авторизации")
		return nil, false
	}
	claims, err := auth.ParseToken(token)
	if err != nil {
		rejectConn(conn, "недействительный токен")
		return nil, false
	}
	if !claims.Role.Valid() {
		rejectConn(conn, "недействительный токен")
		return nil, false
	}
	return claims, true
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// rejectConn отправляет error-кадр и закрывает соединение
func rejectConn(conn *websocket.Conn, reason string) {
	_ = conn.WriteJSON(ErrorFrame{Error: reason})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason))
	_ = conn.Close()
}
