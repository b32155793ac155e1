package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"stayhub_backend/internal/access"
	"stayhub_backend/internal/models"
	chatmodels "stayhub_backend/internal/models/chat"
	"stayhub_backend/internal/repositories"
	chatrepo "stayhub_backend/internal/repositories/chat"
	"stayhub_backend/internal/services/dto"
	"stayhub_backend/internal/storage"
	"stayhub_backend/pkg/apperrors"
)

// ChatService - комнаты чата, история и учет прочитанного.
// Живая доставка сообщений идет через websocket-конвейер; здесь REST-срез:
// списки комнат, история, флаг "отвечено", вложения.
type ChatService interface {
	// GetOrCreateRoom возвращает комнату чек-ина, создавая ее при первом
	// обращении (ровно одна комната на чек-ин)
	GetOrCreateRoom(checkIn *models.CheckIn) (*chatmodels.ChatRoom, error)

	// ListRooms - комнаты, доступные пользователю: гость видит комнату
	// своего активного чек-ина, персонал - активные комнаты своих отелей
	// (admin - всех), опционально отфильтрованные по propertyID
	ListRooms(sub access.Subject, propertyID string) ([]dto.RoomListItem, error)

	// RoomDetail - история комнаты по дням; открытие помечает ее
	// прочитанной для читателя
	RoomDetail(sub access.Subject, roomID string) (*dto.RoomDetailResponse, error)

	// SetAnswered выставляет флаг "отвечено" (только персонал)
	SetAnswered(sub access.Subject, roomID string, answered bool) error

	// UnreadRoomCount - сколько доступных пользователю комнат содержат
	// непрочитанные сообщения
	UnreadRoomCount(sub access.Subject) (int, error)

	// DeactivateForCheckIn выключает комнату чек-ина при выселении;
	// отсутствие комнаты - не ошибка
	DeactivateForCheckIn(checkInID string) error

	// SaveAttachment сохраняет вложение чата и возвращает его метаданные
	SaveAttachment(ctx context.Context, fileName, contentType string, size int64, reader io.Reader) (*dto.UploadResponse, error)
}

type chatService struct {
	roomRepo        chatrepo.RoomRepository
	messageRepo     chatrepo.MessageRepository
	participantRepo chatrepo.ParticipantRepository
	checkInRepo     repositories.CheckInRepository
	userRepo        repositories.UserRepository
	propertyRepo    repositories.PropertyRepository
	evaluator       *access.Evaluator
	storage         storage.Storage
	maxFileSize     int64
}

func NewChatService(
	roomRepo chatrepo.RoomRepository,
	messageRepo chatrepo.MessageRepository,
	participantRepo chatrepo.ParticipantRepository,
	checkInRepo repositories.CheckInRepository,
	userRepo repositories.UserRepository,
	propertyRepo repositories.PropertyRepository,
	evaluator *access.Evaluator,
	store storage.Storage,
	maxFileSize int64,
) ChatService {
	return &chatService{
		roomRepo:        roomRepo,
		messageRepo:     messageRepo,
		participantRepo: participantRepo,
		checkInRepo:     checkInRepo,
		userRepo:        userRepo,
		propertyRepo:    propertyRepo,
		evaluator:       evaluator,
		storage:         store,
		maxFileSize:     maxFileSize,
	}
}

func (s *chatService) GetOrCreateRoom(checkIn *models.CheckIn) (*chatmodels.ChatRoom, error) {
	room, err := s.roomRepo.FindByCheckIn(checkIn.ID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, chatrepo.ErrRoomNotFound) {
		return nil, apperrors.ErrDatabase(err, "chat")
	}

	room = &chatmodels.ChatRoom{
		PropertyID: checkIn.PropertyID,
		CheckInID:  checkIn.ID,
		IsActive:   true,
	}
	if err := s.roomRepo.Create(room); err != nil {
		// параллельное создание: уникальный индекс по check_in_id
		if existing, ferr := s.roomRepo.FindByCheckIn(checkIn.ID); ferr == nil {
			return existing, nil
		}
		return nil, apperrors.ErrDatabase(err, "chat")
	}
	return room, nil
}

func (s *chatService) ListRooms(sub access.Subject, propertyID string) ([]dto.RoomListItem, error) {
	if sub.Role.IsStaff() {
		return s.listStaffRooms(sub, propertyID)
	}
	return s.listGuestRooms(sub)
}

func (s *chatService) listGuestRooms(sub access.Subject) ([]dto.RoomListItem, error) {
	checkIn, err := s.checkInRepo.FindActiveByUser(sub.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrCheckInNotFound) {
			return []dto.RoomListItem{}, nil
		}
		return nil, apperrors.ErrDatabase(err, "chat")
	}

	room, err := s.GetOrCreateRoom(checkIn)
	if err != nil {
		return nil, err
	}

	item, err := s.buildRoomItem(room, sub.UserID)
	if err != nil {
		return nil, err
	}
	return []dto.RoomListItem{*item}, nil
}

func (s *chatService) listStaffRooms(sub access.Subject, propertyID string) ([]dto.RoomListItem, error) {
	propertyIDs, err := s.staffPropertyIDs(sub)
	if err != nil {
		return nil, err
	}
	if propertyID != "" {
		if !containsString(propertyIDs, propertyID) {
			return nil, apperrors.ErrInsufficientPermissions
		}
		propertyIDs = []string{propertyID}
	}

	rooms, err := s.roomRepo.FindActiveByProperties(propertyIDs)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "chat")
	}

	items := make([]dto.RoomListItem, 0, len(rooms))
	for i := range rooms {
		item, err := s.buildRoomItem(&rooms[i], sub.UserID)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// staffPropertyIDs - отели, чьи комнаты видит сотрудник
func (s *chatService) staffPropertyIDs(sub access.Subject) ([]string, error) {
	if sub.Role == models.UserRoleAdmin {
		properties, err := s.propertyRepo.List()
		if err != nil {
			return nil, apperrors.ErrDatabase(err, "chat")
		}
		ids := make([]string, 0, len(properties))
		for i := range properties {
			ids = append(ids, properties[i].ID)
		}
		return ids, nil
	}
	ids, err := s.propertyRepo.FindManagedPropertyIDs(sub.UserID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "chat")
	}
	return ids, nil
}

// buildRoomItem собирает строку списка: гость, номер, непрочитанное,
// последнее сообщение
func (s *chatService) buildRoomItem(room *chatmodels.ChatRoom, viewerID string) (*dto.RoomListItem, error) {
	item := &dto.RoomListItem{
		ID:         room.ID,
		PropertyID: room.PropertyID,
		CheckInID:  room.CheckInID,
		IsActive:   room.IsActive,
		IsAnswered: room.IsAnswered,
	}

	checkIn, err := s.checkInRepo.FindByID(room.CheckInID)
	if err == nil {
		if checkIn.User != nil {
			item.GuestName = checkIn.User.Name
		}
		if checkIn.HotelRoom != nil {
			item.RoomNumber = checkIn.HotelRoom.RoomNumber
		}
	}

	unread, err := s.unreadInRoom(room.ID, viewerID)
	if err != nil {
		return nil, err
	}
	item.UnreadCount = unread

	last, err := s.messageRepo.LastByRoom(room.ID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "chat")
	}
	if last != nil {
		resp := s.serializeMessage(last, nil, nil)
		item.LastMessage = &resp
	}
	return item, nil
}

// unreadInRoom - сообщения строго новее закладки читателя; без закладки
// непрочитанной считается вся история
func (s *chatService) unreadInRoom(roomID, userID string) (int64, error) {
	participant, err := s.participantRepo.Find(roomID, userID)
	if err != nil {
		return 0, apperrors.ErrDatabase(err, "chat")
	}
	var after *time.Time
	if participant != nil {
		after = participant.LastReadAt
	}
	count, err := s.messageRepo.CountAfter(roomID, after)
	if err != nil {
		return 0, apperrors.ErrDatabase(err, "chat")
	}
	return count, nil
}

func (s *chatService) RoomDetail(sub access.Subject, roomID string) (*dto.RoomDetailResponse, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, chatrepo.ErrRoomNotFound) {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.ErrDatabase(err, "chat")
	}
	if err := s.authorize(sub, room, access.ActionRead); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByRoom(roomID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "chat")
	}

	senders, err := s.loadSenders(messages)
	if err != nil {
		return nil, err
	}

	detail := &dto.RoomDetailResponse{
		ID:         room.ID,
		PropertyID: room.PropertyID,
		CheckInID:  room.CheckInID,
		IsActive:   room.IsActive,
		IsAnswered: room.IsAnswered,
	}
	if checkIn, cerr := s.checkInRepo.FindByID(room.CheckInID); cerr == nil && checkIn.User != nil {
		detail.GuestName = checkIn.User.Name
	}

	var viewerRole *models.UserRole
	if sub.Role.IsGuestRole() {
		viewerRole = &sub.Role
	}
	for i := range messages {
		msg := &messages[i]
		resp := s.serializeMessage(msg, senders[msg.SenderID], viewerRole)
		date := msg.CreatedAt.Local().Format("2006-01-02")
		if n := len(detail.Groups); n == 0 || detail.Groups[n-1].Date != date {
			detail.Groups = append(detail.Groups, dto.MessageGroup{Date: date})
		}
		group := &detail.Groups[len(detail.Groups)-1]
		group.Messages = append(group.Messages, resp)
	}

	// открытие комнаты сдвигает закладку прочитанного
	if err := s.participantRepo.MarkRead(roomID, sub.UserID, time.Now()); err != nil {
		return nil, apperrors.ErrDatabase(err, "chat")
	}
	return detail, nil
}

func (s *chatService) loadSenders(messages []chatmodels.Message) (map[string]*models.User, error) {
	senders := make(map[string]*models.User)
	for i := range messages {
		id := messages[i].SenderID
		if _, ok := senders[id]; ok {
			continue
		}
		user, err := s.userRepo.FindByID(id)
		if err != nil {
			// отправитель мог быть удален; сообщение остается
			senders[id] = nil
			continue
		}
		senders[id] = user
	}
	return senders, nil
}

// serializeMessage сериализует сообщение под роль читателя: персонал
// видит оригинал и перевод раздельно, гостю сообщение персонала
// отдается сразу на его языке.
func (s *chatService) serializeMessage(msg *chatmodels.Message, sender *models.User, viewerRole *models.UserRole) dto.MessageResponse {
	local := msg.CreatedAt.Local()
	resp := dto.MessageResponse{
		ID:                msg.ID,
		SenderID:          msg.SenderID,
		Content:           msg.Content,
		TranslatedContent: msg.TranslatedContent,
		FileURL:           msg.FileURL,
		FileName:          msg.FileName,
		FileType:          msg.FileType,
		CreatedAtDate:     local.Format("2006-01-02"),
		CreatedAtTime:     local.Format("15:04"),
	}
	if sender != nil {
		resp.SenderName = sender.Name
		resp.SenderIsStaff = sender.Role.IsStaff()
	}
	if viewerRole != nil && resp.SenderIsStaff && msg.TranslatedContent != nil {
		resp.Content = msg.TranslatedContent
		resp.TranslatedContent = nil
	}
	return resp
}

func (s *chatService) SetAnswered(sub access.Subject, roomID string, answered bool) error {
	if !sub.Role.IsStaff() {
		return apperrors.ErrInsufficientPermissions
	}
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, chatrepo.ErrRoomNotFound) {
			return apperrors.ErrRoomNotFound
		}
		return apperrors.ErrDatabase(err, "chat")
	}
	if err := s.authorize(sub, room, access.ActionWrite); err != nil {
		return err
	}
	if err := s.roomRepo.SetAnswered(roomID, answered); err != nil {
		return apperrors.ErrDatabase(err, "chat")
	}
	return nil
}

func (s *chatService) UnreadRoomCount(sub access.Subject) (int, error) {
	items, err := s.ListRooms(sub, "")
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range items {
		if items[i].UnreadCount > 0 {
			count++
		}
	}
	return count, nil
}

func (s *chatService) DeactivateForCheckIn(checkInID string) error {
	_, err := s.roomRepo.DeactivateByCheckIn(checkInID)
	if err != nil && !errors.Is(err, chatrepo.ErrRoomNotFound) {
		return apperrors.ErrDatabase(err, "chat")
	}
	return nil
}

func (s *chatService) SaveAttachment(ctx context.Context, fileName, contentType string, size int64, reader io.Reader) (*dto.UploadResponse, error) {
	if size > s.maxFileSize {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("файл превышает лимит %d байт", s.maxFileSize))
	}

	// имя на диске не зависит от пользовательского ввода
	ext := filepath.Ext(fileName)
	path := fmt.Sprintf("chat/%s/%s%s", time.Now().Format("2006/01"), uuid.NewString(), ext)

	if err := s.storage.Save(ctx, path, reader, contentType); err != nil {
		return nil, apperrors.ErrExternalService(err, "chat", "не удалось сохранить вложение")
	}
	url, err := s.storage.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.ErrExternalService(err, "chat", "не удалось сохранить вложение")
	}

	return &dto.UploadResponse{
		FileURL:  url,
		FileName: fileName,
		FileType: contentType,
	}, nil
}

func (s *chatService) authorize(sub access.Subject, room *chatmodels.ChatRoom, action access.Action) error {
	allowed, err := s.evaluator.CanAccessRoom(sub, room, action)
	if err != nil {
		return apperrors.ErrDatabase(err, "chat")
	}
	if !allowed {
		return apperrors.ErrInsufficientPermissions
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
