package access

import (
	"stayhub_backend/internal/models"
	"stayhub_backend/internal/models/chat"
)

// Единая точка авторизации для чата: и WebSocket-мультиплексор, и
// REST-эндпоинты проверяют доступ здесь, чтобы правила не расходились.

// Action - действие над комнатой или отелем
type Action string

const (
	ActionRead      Action = "read"
	ActionWrite     Action = "write"
	ActionSubscribe Action = "subscribe"
)

// Subject - кто запрашивает доступ
type Subject struct {
	UserID string
	Role   models.UserRole
}

// Decision - входные факты для чистого правила
type Decision struct {
	// Пользователь - гость чек-ина, к которому привязана комната
	IsRoomGuest bool
	// Пользователь числится менеджером отеля комнаты
	IsPropertyManager bool
}

// Decide - чистое правило доступа к комнате чата.
// Админ может все; гость - только свою комнату; менеджер - только
// комнаты своих отелей. Действие сейчас не влияет на исход (запись в
// неактивную комнату отсекает Message Store, а не политика), но
// входит в сигнатуру, чтобы REST и ws звали политику одинаково.
func Decide(sub Subject, d Decision, _ Action) bool {
	if sub.Role == models.UserRoleAdmin {
		return true
	}
	if d.IsRoomGuest {
		return true
	}
	if sub.Role == models.UserRoleManager && d.IsPropertyManager {
		return true
	}
	return false
}

// DecideProperty - чистое правило подписки на manager-группу отеля.
// Только персонал; менеджер - только на свои отели.
func DecideProperty(sub Subject, isPropertyManager bool) bool {
	if sub.Role == models.UserRoleAdmin {
		return true
	}
	return sub.Role == models.UserRoleManager && isPropertyManager
}

// CheckInSource и PropertySource - узкие срезы репозиториев,
// нужные Evaluator для разрешения фактов.
type CheckInSource interface {
	IsGuestOf(checkInID, userID string) (bool, error)
}

type PropertySource interface {
	IsManagerOf(userID, propertyID string) (bool, error)
}

// Evaluator разрешает факты через репозитории и применяет Decide
type Evaluator struct {
	checkins   CheckInSource
	properties PropertySource
}

func NewEvaluator(checkins CheckInSource, properties PropertySource) *Evaluator {
	return &Evaluator{checkins: checkins, properties: properties}
}

// CanAccessRoom - доступ субъекта к комнате чата
func (e *Evaluator) CanAccessRoom(sub Subject, room *chat.ChatRoom, action Action) (bool, error) {
	if sub.Role == models.UserRoleAdmin {
		return true, nil
	}

	d := Decision{}

	if sub.Role.IsGuestRole() {
		isGuest, err := e.checkins.IsGuestOf(room.CheckInID, sub.UserID)
		if err != nil {
			return false, err
		}
		d.IsRoomGuest = isGuest
	}

	if sub.Role == models.UserRoleManager {
		isManager, err := e.properties.IsManagerOf(sub.UserID, room.PropertyID)
		if err != nil {
			return false, err
		}
		d.IsPropertyManager = isManager
	}

	return Decide(sub, d, action), nil
}

// CanSubscribeProperty - доступ субъекта к manager-группе отеля
func (e *Evaluator) CanSubscribeProperty(sub Subject, propertyID string) (bool, error) {
	if sub.Role == models.UserRoleAdmin {
		return true, nil
	}
	if sub.Role != models.UserRoleManager {
		return false, nil
	}

	isManager, err := e.properties.IsManagerOf(sub.UserID, propertyID)
	if err != nil {
		return false, err
	}
	return DecideProperty(sub, isManager), nil
}
