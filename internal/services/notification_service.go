package services

import (
	"context"
	"errors"
	"time"

	"stayhub_backend/internal/logger"
	"stayhub_backend/internal/models"
	chatmodels "stayhub_backend/internal/models/chat"
	"stayhub_backend/internal/repositories"
	"stayhub_backend/internal/services/dto"
	"stayhub_backend/pkg/apperrors"
	"stayhub_backend/ws"
)

// NotificationService - диспетчер уведомлений: разворачивает адресатов
// по типу, сохраняет статусы одной транзакцией и пушит в персональные
// websocket-группы получателей.
type NotificationService interface {
	Dispatch(senderID string, req *dto.DispatchNotificationRequest) (*dto.NotificationResponse, error)
	// ListUnread - непрочитанные уведомления получателя; серия
	// MESSAGE-уведомлений пары (отправитель, комната) схлопнута до новейшего
	ListUnread(userID string) ([]dto.NotificationResponse, error)
	// MarkRead помечает уведомление прочитанным; для MESSAGE прочитанной
	// становится вся серия той же пары (отправитель, комната)
	MarkRead(userID, notificationID string) error
	UnreadCount(userID string) (int, error)

	// NotifyChatMessage - MESSAGE-уведомление гостю о сообщении персонала
	// (реализация ws.Notifier)
	NotifyChatMessage(ctx context.Context, sender *models.User, room *chatmodels.ChatRoom, recipientID, content string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	checkInRepo      repositories.CheckInRepository
	broker           ws.Broker
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	checkInRepo repositories.CheckInRepository,
	broker ws.Broker,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		checkInRepo:      checkInRepo,
		broker:           broker,
	}
}

func (s *notificationService) Dispatch(senderID string, req *dto.DispatchNotificationRequest) (*dto.NotificationResponse, error) {
	notifType := models.NotificationType(req.Type)
	if !notifType.Valid() {
		return nil, apperrors.NewBadRequestError("неизвестный тип уведомления")
	}

	recipients, err := s.resolveRecipients(notifType, req)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		SenderID:   senderID,
		Title:      req.Title,
		Content:    req.Content,
		Type:       notifType,
		ChatRoomID: req.ChatRoomID,
	}
	if err := s.notificationRepo.CreateWithRecipients(notification, recipients); err != nil {
		return nil, apperrors.ErrDatabase(err, "notification")
	}

	// Push уже сохраненного уведомления: офлайн-получатели увидят его
	// через REST, пустая группа - no-op
	frame := ws.NewNotificationFrame(notification)
	for _, recipientID := range recipients {
		s.broker.Publish(ws.NotificationsGroup(recipientID), frame)
	}

	logger.Info("уведомление разослано",
		"notification_id", notification.ID,
		"type", string(notifType),
		"recipients", len(recipients))

	resp := buildNotificationResponse(notification)
	return &resp, nil
}

// resolveRecipients разворачивает адресатов по типу уведомления
func (s *notificationService) resolveRecipients(notifType models.NotificationType, req *dto.DispatchNotificationRequest) ([]string, error) {
	switch notifType {
	case models.NotificationTypeEvent:
		ids, err := s.userRepo.FindIDsByRole(models.UserRoleGeneral)
		if err != nil {
			return nil, apperrors.ErrDatabase(err, "notification")
		}
		return ids, nil

	case models.NotificationTypeAnnouncement:
		if req.PropertyID == nil {
			return nil, apperrors.NewBadRequestError("для ANNOUNCEMENT требуется property_id")
		}
		ids, err := s.checkInRepo.FindActiveUserIDsByProperty(*req.PropertyID)
		if err != nil {
			return nil, apperrors.ErrDatabase(err, "notification")
		}
		return ids, nil

	case models.NotificationTypeMessage:
		if req.TargetUser == nil {
			return nil, apperrors.NewBadRequestError("для MESSAGE требуется target_user_id")
		}
		return []string{*req.TargetUser}, nil
	}
	return nil, apperrors.NewBadRequestError("неизвестный тип уведомления")
}

func (s *notificationService) ListUnread(userID string) ([]dto.NotificationResponse, error) {
	notifications, err := s.notificationRepo.FindUnreadForUser(userID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "notification")
	}

	collapsed := collapseMessages(notifications)
	responses := make([]dto.NotificationResponse, 0, len(collapsed))
	for i := range collapsed {
		responses = append(responses, buildNotificationResponse(&collapsed[i]))
	}
	return responses, nil
}

func (s *notificationService) MarkRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err, "notification", "уведомление не найдено")
		}
		return apperrors.ErrDatabase(err, "notification")
	}

	now := time.Now()
	if notification.Type == models.NotificationTypeMessage {
		// одно действие закрывает всю серию чат-пингов пары
		err = s.notificationRepo.MarkReadBySenderAndRoom(notification.SenderID, notification.ChatRoomID, userID, now)
	} else {
		err = s.notificationRepo.MarkRead(notificationID, userID, now)
	}
	if err != nil {
		return apperrors.ErrDatabase(err, "notification")
	}
	return nil
}

func (s *notificationService) UnreadCount(userID string) (int, error) {
	notifications, err := s.notificationRepo.FindUnreadForUser(userID)
	if err != nil {
		return 0, apperrors.ErrDatabase(err, "notification")
	}
	return len(collapseMessages(notifications)), nil
}

func (s *notificationService) NotifyChatMessage(ctx context.Context, sender *models.User, room *chatmodels.ChatRoom, recipientID, content string) error {
	roomID := room.ID
	_, err := s.Dispatch(sender.ID, &dto.DispatchNotificationRequest{
		Type:       string(models.NotificationTypeMessage),
		Title:      sender.Name,
		Content:    content,
		TargetUser: &recipientID,
		ChatRoomID: &roomID,
	})
	return err
}

// collapseMessages схлопывает MESSAGE-уведомления по паре
// (отправитель, комната), оставляя новейшее; порядок входа (новые
// сверху) сохраняется.
func collapseMessages(notifications []models.Notification) []models.Notification {
	result := make([]models.Notification, 0, len(notifications))
	seen := make(map[string]struct{})

	for _, n := range notifications {
		if n.Type != models.NotificationTypeMessage {
			result = append(result, n)
			continue
		}
		key := n.SenderID
		if n.ChatRoomID != nil {
			key += "|" + *n.ChatRoomID
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, n)
	}
	return result
}

func buildNotificationResponse(n *models.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:               n.ID,
		SenderID:         n.SenderID,
		Title:            n.Title,
		Content:          n.Content,
		NotificationType: string(n.Type),
		ChatRoom:         n.ChatRoomID,
		CreatedAt:        n.CreatedAt.Local().Format(time.RFC3339),
	}
	if n.Sender != nil {
		resp.SenderName = n.Sender.Name
	}
	return resp
}
