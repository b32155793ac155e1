package ws

import (
	"sync"

	"stayhub_backend/internal/logger"
)

// Manager — внутрипроцессная реализация Broker.
// Членство хранится в обе стороны: группа -> клиенты и клиент -> группы,
// чтобы закрытие соединения снимало все подписки за один проход.
type Manager struct {
	mu     sync.RWMutex
	groups map[string]map[*Client]struct{}
}

func NewManager() *Manager {
	return &Manager{
		groups: make(map[string]map[*Client]struct{}),
	}
}

// Join добавляет клиента в группу. Повторный Join той же пары — no-op.
func (m *Manager) Join(group string, c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, ok := m.groups[group]
	if !ok {
		members = make(map[*Client]struct{})
		m.groups[group] = members
	}
	if _, exists := members[c]; exists {
		return
	}
	members[c] = struct{}{}
	c.groups[group] = struct{}{}

	logger.WSLog("join", group, c.UserID)
}

// Leave убирает клиента из группы. Отсутствующая пара — no-op.
func (m *Manager) Leave(group string, c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveLocked(group, c)
}

// LeaveAll снимает клиента со всех групп. Вызывается синхронно при закрытии
// соединения: после возврата клиент гарантированно не получит новых кадров.
func (m *Manager) LeaveAll(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for group := range c.groups {
		m.leaveLocked(group, c)
	}
}

func (m *Manager) leaveLocked(group string, c *Client) {
	members, ok := m.groups[group]
	if !ok {
		return
	}
	if _, exists := members[c]; !exists {
		return
	}
	delete(members, c)
	delete(c.groups, group)
	if len(members) == 0 {
		delete(m.groups, group)
	}
	logger.WSLog("leave", group, c.UserID)
}

// Publish рассылает кадр всем участникам группы. Клиент с переполненным
// исходящим буфером считается мёртвым и вытесняется, не задерживая остальных.
func (m *Manager) Publish(group string, frame any) {
	m.mu.RLock()
	members := make([]*Client, 0, len(m.groups[group]))
	for c := range m.groups[group] {
		members = append(members, c)
	}
	m.mu.RUnlock()

	for _, c := range members {
		if !c.Deliver(frame) {
			logger.WSLog("evict_slow_client", group, c.UserID)
			go c.Close()
		}
	}
}

func (m *Manager) GroupSize(group string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.groups[group])
}
