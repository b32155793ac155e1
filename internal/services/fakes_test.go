package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"stayhub_backend/internal/models"
	chatmodels "stayhub_backend/internal/models/chat"
	"stayhub_backend/internal/repositories"
	chatrepo "stayhub_backend/internal/repositories/chat"
	"stayhub_backend/ws"
)

// Ручные фейки репозиториев для юнит-тестов сервисов: in-memory maps
// вместо gorm, без обращения к БД.

// --- пользователи ---

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Update(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindIDsByRole(role models.UserRole) ([]string, error) {
	var ids []string
	for id, u := range f.users {
		if u.Role == role {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// --- отели ---

type fakePropertyRepo struct {
	properties map[string]*models.Property
	rooms      map[string]*models.HotelRoom
	managers   map[string]map[string]bool // propertyID -> userID
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{
		properties: make(map[string]*models.Property),
		rooms:      make(map[string]*models.HotelRoom),
		managers:   make(map[string]map[string]bool),
	}
}

func (f *fakePropertyRepo) Create(property *models.Property) error {
	if property.ID == "" {
		property.ID = "prop-" + property.Name
	}
	f.properties[property.ID] = property
	return nil
}

func (f *fakePropertyRepo) FindByID(id string) (*models.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, repositories.ErrPropertyNotFound
	}
	return p, nil
}

func (f *fakePropertyRepo) List() ([]models.Property, error) {
	var result []models.Property
	for _, p := range f.properties {
		result = append(result, *p)
	}
	return result, nil
}

func (f *fakePropertyRepo) Update(property *models.Property) error {
	f.properties[property.ID] = property
	return nil
}

func (f *fakePropertyRepo) AddManager(propertyID, userID string) error {
	if f.managers[propertyID] == nil {
		f.managers[propertyID] = make(map[string]bool)
	}
	f.managers[propertyID][userID] = true
	return nil
}

func (f *fakePropertyRepo) RemoveManager(propertyID, userID string) error {
	delete(f.managers[propertyID], userID)
	return nil
}

func (f *fakePropertyRepo) IsManagerOf(userID, propertyID string) (bool, error) {
	return f.managers[propertyID][userID], nil
}

func (f *fakePropertyRepo) FindManagedPropertyIDs(userID string) ([]string, error) {
	var ids []string
	for propertyID, users := range f.managers {
		if users[userID] {
			ids = append(ids, propertyID)
		}
	}
	return ids, nil
}

func (f *fakePropertyRepo) CreateRoom(room *models.HotelRoom) error {
	if room.ID == "" {
		room.ID = "hr-" + room.RoomNumber
	}
	f.rooms[room.ID] = room
	return nil
}

func (f *fakePropertyRepo) FindRoomByID(id string) (*models.HotelRoom, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, repositories.ErrPropertyNotFound
	}
	return r, nil
}

func (f *fakePropertyRepo) FindRoomsByProperty(propertyID string) ([]models.HotelRoom, error) {
	var result []models.HotelRoom
	for _, r := range f.rooms {
		if r.PropertyID == propertyID {
			result = append(result, *r)
		}
	}
	return result, nil
}

// --- чек-ины ---

type fakeCheckInRepo struct {
	checkIns map[string]*models.CheckIn
}

func newFakeCheckInRepo(checkIns ...*models.CheckIn) *fakeCheckInRepo {
	repo := &fakeCheckInRepo{checkIns: make(map[string]*models.CheckIn)}
	for _, ci := range checkIns {
		repo.checkIns[ci.ID] = ci
	}
	return repo
}

func (f *fakeCheckInRepo) Create(checkIn *models.CheckIn) error {
	if checkIn.ID == "" {
		checkIn.ID = "ci-" + checkIn.UserID
	}
	f.checkIns[checkIn.ID] = checkIn
	return nil
}

func (f *fakeCheckInRepo) FindByID(id string) (*models.CheckIn, error) {
	ci, ok := f.checkIns[id]
	if !ok {
		return nil, repositories.ErrCheckInNotFound
	}
	return ci, nil
}

func (f *fakeCheckInRepo) FindByTempCode(code string) (*models.CheckIn, error) {
	for _, ci := range f.checkIns {
		if ci.TempCode == code {
			return ci, nil
		}
	}
	return nil, repositories.ErrCheckInNotFound
}

func (f *fakeCheckInRepo) FindActiveByUser(userID string) (*models.CheckIn, error) {
	for _, ci := range f.checkIns {
		if ci.UserID == userID && !ci.CheckedOut {
			return ci, nil
		}
	}
	return nil, repositories.ErrCheckInNotFound
}

func (f *fakeCheckInRepo) FindActiveUserIDsByProperty(propertyID string) ([]string, error) {
	var ids []string
	for _, ci := range f.checkIns {
		if ci.PropertyID == propertyID && !ci.CheckedOut {
			ids = append(ids, ci.UserID)
		}
	}
	return ids, nil
}

func (f *fakeCheckInRepo) FindOverdue(now time.Time) ([]models.CheckIn, error) {
	var result []models.CheckIn
	for _, ci := range f.checkIns {
		if !ci.CheckedOut && ci.CheckOutDate.Before(now) {
			result = append(result, *ci)
		}
	}
	return result, nil
}

func (f *fakeCheckInRepo) MarkCheckedOut(id string) error {
	ci, ok := f.checkIns[id]
	if !ok {
		return repositories.ErrCheckInNotFound
	}
	ci.CheckedOut = true
	return nil
}

func (f *fakeCheckInRepo) IsGuestOf(checkInID, userID string) (bool, error) {
	ci, ok := f.checkIns[checkInID]
	if !ok {
		return false, nil
	}
	return ci.UserID == userID, nil
}

// --- комнаты чата ---

type fakeRoomRepo struct {
	rooms map[string]*chatmodels.ChatRoom
}

func newFakeRoomRepo(rooms ...*chatmodels.ChatRoom) *fakeRoomRepo {
	repo := &fakeRoomRepo{rooms: make(map[string]*chatmodels.ChatRoom)}
	for _, r := range rooms {
		repo.rooms[r.ID] = r
	}
	return repo
}

func (f *fakeRoomRepo) Create(room *chatmodels.ChatRoom) error {
	if room.ID == "" {
		room.ID = "room-" + room.CheckInID
	}
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomRepo) FindByID(id string) (*chatmodels.ChatRoom, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, chatrepo.ErrRoomNotFound
	}
	return r, nil
}

func (f *fakeRoomRepo) FindByCheckIn(checkInID string) (*chatmodels.ChatRoom, error) {
	for _, r := range f.rooms {
		if r.CheckInID == checkInID {
			return r, nil
		}
	}
	return nil, chatrepo.ErrRoomNotFound
}

func (f *fakeRoomRepo) FindActiveByProperties(propertyIDs []string) ([]chatmodels.ChatRoom, error) {
	var result []chatmodels.ChatRoom
	for _, r := range f.rooms {
		if !r.IsActive {
			continue
		}
		for _, propertyID := range propertyIDs {
			if r.PropertyID == propertyID {
				result = append(result, *r)
				break
			}
		}
	}
	return result, nil
}

func (f *fakeRoomRepo) SetAnswered(roomID string, answered bool) error {
	r, ok := f.rooms[roomID]
	if !ok {
		return chatrepo.ErrRoomNotFound
	}
	r.IsAnswered = answered
	return nil
}

func (f *fakeRoomRepo) DeactivateByCheckIn(checkInID string) (string, error) {
	for _, r := range f.rooms {
		if r.CheckInID == checkInID && r.IsActive {
			r.IsActive = false
			return r.ID, nil
		}
	}
	return "", chatrepo.ErrRoomNotFound
}

// --- сообщения ---

type fakeMessageRepo struct {
	messages []chatmodels.Message
	seq      int
}

func (f *fakeMessageRepo) CreateWithAnswerReset(msg *chatmodels.Message, resetAnswered bool) error {
	f.seq++
	if msg.ID == "" {
		msg.ID = fmt.Sprintf("msg-%d", f.seq)
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepo) ListByRoom(roomID string) ([]chatmodels.Message, error) {
	var result []chatmodels.Message
	for _, m := range f.messages {
		if m.ChatRoomID == roomID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (f *fakeMessageRepo) CountByRoom(roomID string) (int64, error) {
	msgs, _ := f.ListByRoom(roomID)
	return int64(len(msgs)), nil
}

func (f *fakeMessageRepo) CountAfter(roomID string, after *time.Time) (int64, error) {
	var count int64
	for _, m := range f.messages {
		if m.ChatRoomID != roomID {
			continue
		}
		if after == nil || m.CreatedAt.After(*after) {
			count++
		}
	}
	return count, nil
}

func (f *fakeMessageRepo) LastByRoom(roomID string) (*chatmodels.Message, error) {
	var last *chatmodels.Message
	for i := range f.messages {
		m := &f.messages[i]
		if m.ChatRoomID != roomID {
			continue
		}
		if last == nil || m.CreatedAt.After(last.CreatedAt) {
			last = m
		}
	}
	return last, nil
}

// --- закладки прочитанного ---

type fakeParticipantRepo struct {
	marks map[string]time.Time // roomID|userID
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{marks: make(map[string]time.Time)}
}

func (f *fakeParticipantRepo) MarkRead(roomID, userID string, at time.Time) error {
	f.marks[roomID+"|"+userID] = at
	return nil
}

func (f *fakeParticipantRepo) Find(roomID, userID string) (*chatmodels.ChatRoomParticipant, error) {
	at, ok := f.marks[roomID+"|"+userID]
	if !ok {
		return nil, nil
	}
	return &chatmodels.ChatRoomParticipant{
		ChatRoomID: roomID,
		UserID:     userID,
		LastReadAt: &at,
	}, nil
}

// --- уведомления ---

type fakeNotificationRepo struct {
	notifications []models.Notification
	recipients    map[string][]string  // notificationID -> userIDs
	readAt        map[string]time.Time // notificationID|recipientID
	seq           int

	markBySenderRoomCalls int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		recipients: make(map[string][]string),
		readAt:     make(map[string]time.Time),
	}
}

func (f *fakeNotificationRepo) CreateWithRecipients(notification *models.Notification, recipientIDs []string) error {
	f.seq++
	if notification.ID == "" {
		notification.ID = fmt.Sprintf("n-%d", f.seq)
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	f.notifications = append(f.notifications, *notification)
	f.recipients[notification.ID] = recipientIDs
	return nil
}

func (f *fakeNotificationRepo) FindByID(id string) (*models.Notification, error) {
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			return &f.notifications[i], nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) FindUnreadForUser(userID string) ([]models.Notification, error) {
	var result []models.Notification
	// новые сверху, как в SQL-выдаче
	for i := len(f.notifications) - 1; i >= 0; i-- {
		n := f.notifications[i]
		if !containsString(f.recipients[n.ID], userID) {
			continue
		}
		if _, read := f.readAt[n.ID+"|"+userID]; read {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

func (f *fakeNotificationRepo) MarkRead(notificationID, recipientID string, at time.Time) error {
	f.readAt[notificationID+"|"+recipientID] = at
	return nil
}

func (f *fakeNotificationRepo) MarkReadBySenderAndRoom(senderID string, chatRoomID *string, recipientID string, at time.Time) error {
	f.markBySenderRoomCalls++
	for _, n := range f.notifications {
		if n.Type != models.NotificationTypeMessage || n.SenderID != senderID {
			continue
		}
		if (n.ChatRoomID == nil) != (chatRoomID == nil) {
			continue
		}
		if n.ChatRoomID != nil && *n.ChatRoomID != *chatRoomID {
			continue
		}
		f.readAt[n.ID+"|"+recipientID] = at
	}
	return nil
}

func (f *fakeNotificationRepo) UnreadStatuses(userID string) ([]models.NotificationReadStatus, error) {
	var result []models.NotificationReadStatus
	for _, n := range f.notifications {
		if !containsString(f.recipients[n.ID], userID) {
			continue
		}
		if _, read := f.readAt[n.ID+"|"+userID]; read {
			continue
		}
		result = append(result, models.NotificationReadStatus{
			NotificationID: n.ID,
			RecipientID:    userID,
		})
	}
	return result, nil
}

// --- broker ---

type fakeBroker struct {
	mu        sync.Mutex
	published map[string][]any
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{published: make(map[string][]any)}
}

func (f *fakeBroker) Join(string, *ws.Client) {}

func (f *fakeBroker) Leave(string, *ws.Client) {}

func (f *fakeBroker) GroupSize(group string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published[group])
}

func (f *fakeBroker) Publish(group string, frame any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[group] = append(f.published[group], frame)
}

func (f *fakeBroker) frames(group string) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.published[group]
}

// --- хранилище вложений ---

type fakeStorage struct {
	saved map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string][]byte)}
}

func (f *fakeStorage) Save(_ context.Context, path string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.saved[path] = data
	return nil
}

func (f *fakeStorage) Get(_ context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.saved[path])), nil
}

func (f *fakeStorage) Delete(_ context.Context, path string) error {
	delete(f.saved, path)
	return nil
}

func (f *fakeStorage) Exists(_ context.Context, path string) (bool, error) {
	_, ok := f.saved[path]
	return ok, nil
}

func (f *fakeStorage) GetURL(_ context.Context, path string) (string, error) {
	return "/files/" + path, nil
}

func (f *fakeStorage) GetSize(_ context.Context, path string) (int64, error) {
	return int64(len(f.saved[path])), nil
}
