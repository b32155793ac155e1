package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"stayhub_backend/internal/logger"
	"stayhub_backend/internal/models"
	"stayhub_backend/pkg/apperrors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

// Client - одно websocket-соединение. Подписки (комната, менеджерская
// группа, персональные уведомления) фиксируются при подключении и не
// меняются до закрытия.
type Client struct {
	UserID string
	Role   models.UserRole
	// RoomID - подписка на комнату чата; пустая строка, если её нет
	RoomID string
	// PropertyID - менеджерская подписка на отель; пустая строка, если её нет
	PropertyID string

	Conn *websocket.Conn
	Send chan any

	manager *Manager
	flow    *ChatFlow

	// groups защищена мьютексом manager-а
	groups map[string]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(userID string, role models.UserRole, conn *websocket.Conn, manager *Manager, flow *ChatFlow) *Client {
	return &Client{
		UserID:  userID,
		Role:    role,
		Conn:    conn,
		Send:    make(chan any, sendBuffer),
		manager: manager,
		flow:    flow,
		groups:  make(map[string]struct{}),
		done:    make(chan struct{}),
	}
}

// Close снимает все подписки и закрывает соединение. После возврата
// клиент гарантированно не получит новых кадров. Повторный вызов - no-op.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.manager.LeaveAll(c)
		close(c.done)
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	})
}

// Deliver кладет кадр в исходящий буфер, не блокируясь.
// Возвращает false для закрытого клиента или переполненного буфера.
func (c *Client) Deliver(frame any) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Send <- frame:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// ReadPump читает входящие кадры и прогоняет их через конвейер сообщений.
// Кадры одного соединения обрабатываются строго последовательно - это
// сохраняет порядок сообщений отправителя. Ошибка обработки уходит
// только самому отправителю и не рвет соединение.
func (c *Client) ReadPump(ctx context.Context) {
	defer c.Close()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in InboundFrame
		if err := c.Conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Debug("websocket: неожиданное закрытие", "user_id", c.UserID)
			}
			return
		}

		if err := c.flow.Handle(ctx, c, in); err != nil {
			c.Deliver(ErrorFrame{Error: errorText(err)})
		}
	}
}

// WritePump сериализует исходящие кадры и держит соединение живым ping-ами.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// errorText - текст ошибки для error-кадра. Внутренние детали наружу
// не уходят.
func errorText(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Message
	}
	return "internal error"
}
