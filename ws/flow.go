package ws

import (
	"context"
	"errors"

	"stayhub_backend/internal/logger"
	"stayhub_backend/internal/models"
	chatmodels "stayhub_backend/internal/models/chat"
	"stayhub_backend/internal/repositories"
	chatrepo "stayhub_backend/internal/repositories/chat"
	"stayhub_backend/internal/translate"
	"stayhub_backend/pkg/apperrors"
)

// Notifier отправляет MESSAGE-уведомление гостю о сообщении персонала.
// Реализуется notification-сервисом; интерфейс разрывает зависимость
// ws -> services.
type Notifier interface {
	NotifyChatMessage(ctx context.Context, sender *models.User, room *chatmodels.ChatRoom, recipientID, content string) error
}

// ChatFlow - конвейер входящих сообщений чата: валидация, перевод,
// запись, рассылка подписчикам, уведомление гостя. Один экземпляр
// обслуживает все соединения.
type ChatFlow struct {
	rooms    chatrepo.RoomRepository
	messages chatrepo.MessageRepository
	checkIns repositories.CheckInRepository
	users    repositories.UserRepository
	gateway  *translate.Gateway
	broker   Broker
	notifier Notifier
}

func NewChatFlow(
	rooms chatrepo.RoomRepository,
	messages chatrepo.MessageRepository,
	checkIns repositories.CheckInRepository,
	users repositories.UserRepository,
	gateway *translate.Gateway,
	broker Broker,
	notifier Notifier,
) *ChatFlow {
	return &ChatFlow{
		rooms:    rooms,
		messages: messages,
		checkIns: checkIns,
		users:    users,
		gateway:  gateway,
		broker:   broker,
		notifier: notifier,
	}
}

// Handle обрабатывает один входящий кадр. Ошибка возвращается
// отправителю error-кадром, соединение не прерывается.
func (f *ChatFlow) Handle(ctx context.Context, c *Client, in InboundFrame) error {
	if in.Target != TargetChat && in.Target != TargetManager {
		return apperrors.NewBadRequestError("неизвестный target кадра")
	}
	if c.RoomID == "" {
		return apperrors.NewBadRequestError("соединение не подписано на комнату")
	}
	hasText := in.Content != nil && *in.Content != ""
	if !hasText && in.FileURL == nil {
		return apperrors.NewBadRequestError("пустое сообщение")
	}

	room, err := f.rooms.FindByID(c.RoomID)
	if err != nil {
		if errors.Is(err, chatrepo.ErrRoomNotFound) {
			return apperrors.ErrRoomNotFound
		}
		return apperrors.ErrDatabase(err, "chat")
	}

	// Выписанная комната закрыта для гостя; персонал может дописывать
	// служебные сообщения
	if !room.IsActive && !c.Role.IsStaff() {
		return apperrors.ErrInactiveRoomWrite
	}

	sender, err := f.users.FindByID(c.UserID)
	if err != nil {
		return apperrors.ErrDatabase(err, "chat")
	}
	guest, err := f.guestOf(room)
	if err != nil {
		return err
	}

	msg := &chatmodels.Message{
		ChatRoomID: room.ID,
		SenderID:   sender.ID,
		Content:    in.Content,
		FileURL:    in.FileURL,
		FileName:   in.FileName,
		FileType:   in.FileType,
	}

	if hasText {
		if target, need := f.gateway.TargetFor(sender.Role, guest.Language); need {
			translated, terr := f.gateway.Translate(ctx, *in.Content, target)
			if terr != nil {
				// перевод не должен блокировать доставку
				logger.WithError(terr).Warn("перевод сообщения не удался",
					"room_id", room.ID, "target_lang", target)
			} else {
				msg.TranslatedContent = &translated
			}
		}
	}

	// Сообщение гостя снимает флаг "отвечено" - комната снова ждет персонал
	resetAnswered := room.IsAnswered && !sender.Role.IsStaff()
	if err := f.messages.CreateWithAnswerReset(msg, resetAnswered); err != nil {
		return apperrors.ErrDatabase(err, "chat")
	}

	frame := newChatFrame(msg, sender, "")
	f.broker.Publish(RoomGroup(room.ID), frame)

	managerFrame := frame
	managerFrame.ChatRoom = room.ID
	f.broker.Publish(ManagerGroup(room.PropertyID), managerFrame)

	// Гостя уведомляем асинхронно: push не должен задерживать конвейер
	if sender.Role.IsStaff() && sender.ID != guest.ID && hasText {
		go func(sender *models.User, room *chatmodels.ChatRoom, guestID, content string) {
			if err := f.notifier.NotifyChatMessage(context.Background(), sender, room, guestID, content); err != nil {
				logger.WithError(err).Warn("не удалось отправить уведомление о сообщении",
					"room_id", room.ID, "recipient_id", guestID)
			}
		}(sender, room, guest.ID, *in.Content)
	}

	return nil
}

// guestOf находит гостя комнаты через ее чек-ин
func (f *ChatFlow) guestOf(room *chatmodels.ChatRoom) (*models.User, error) {
	checkIn, err := f.checkIns.FindByID(room.CheckInID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "chat")
	}
	if checkIn.User != nil {
		return checkIn.User, nil
	}
	guest, err := f.users.FindByID(checkIn.UserID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "chat")
	}
	return guest, nil
}
