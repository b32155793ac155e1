package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub_backend/internal/models"
	chatmodels "stayhub_backend/internal/models/chat"
	"stayhub_backend/internal/services/dto"
	"stayhub_backend/ws"
)

func notifFixture() (NotificationService, *fakeNotificationRepo, *fakeUserRepo, *fakeCheckInRepo, *fakeBroker) {
	guest1 := &models.User{Role: models.UserRoleGeneral, Name: "Гость 1"}
	guest1.ID = "g1"
	guest2 := &models.User{Role: models.UserRoleGeneral, Name: "Гость 2"}
	guest2.ID = "g2"
	manager := &models.User{Role: models.UserRoleManager, Name: "Менеджер"}
	manager.ID = "m1"

	users := newFakeUserRepo(guest1, guest2, manager)

	checkIn := &models.CheckIn{UserID: "g1", PropertyID: "p1"}
	checkIn.ID = "ci1"
	checkIns := newFakeCheckInRepo(checkIn)

	repo := newFakeNotificationRepo()
	broker := newFakeBroker()
	svc := NewNotificationService(repo, users, checkIns, broker)
	return svc, repo, users, checkIns, broker
}

func TestNotificationService_DispatchEvent(t *testing.T) {
	t.Parallel()

	svc, repo, _, _, broker := notifFixture()

	resp, err := svc.Dispatch("m1", &dto.DispatchNotificationRequest{
		Type:    "EVENT",
		Title:   "Фестиваль",
		Content: "В эти выходные",
	})
	require.NoError(t, err)

	// EVENT уходит всем general-пользователям
	recipients := repo.recipients[resp.ID]
	assert.ElementsMatch(t, []string{"g1", "g2"}, recipients)

	require.Len(t, broker.frames(ws.NotificationsGroup("g1")), 1)
	require.Len(t, broker.frames(ws.NotificationsGroup("g2")), 1)
	assert.Empty(t, broker.frames(ws.NotificationsGroup("m1")))

	frame := broker.frames(ws.NotificationsGroup("g1"))[0].(ws.NotificationFrame)
	assert.Equal(t, "EVENT", frame.NotificationType)
	assert.Equal(t, "Фестиваль", frame.Title)
}

func TestNotificationService_DispatchAnnouncement(t *testing.T) {
	t.Parallel()

	svc, repo, _, _, _ := notifFixture()
	propertyID := "p1"

	resp, err := svc.Dispatch("m1", &dto.DispatchNotificationRequest{
		Type:       "ANNOUNCEMENT",
		Title:      "Бассейн закрыт",
		Content:    "До 15:00",
		PropertyID: &propertyID,
	})
	require.NoError(t, err)

	// только гости с активным чек-ином в отеле
	assert.Equal(t, []string{"g1"}, repo.recipients[resp.ID])
}

func TestNotificationService_DispatchAnnouncementRequiresProperty(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := notifFixture()

	_, err := svc.Dispatch("m1", &dto.DispatchNotificationRequest{
		Type:    "ANNOUNCEMENT",
		Title:   "Без адресата",
		Content: "x",
	})
	require.Error(t, err)
}

func TestNotificationService_DispatchMessageRequiresTarget(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := notifFixture()

	_, err := svc.Dispatch("m1", &dto.DispatchNotificationRequest{
		Type:    "MESSAGE",
		Title:   "Менеджер",
		Content: "x",
	})
	require.Error(t, err)
}

func TestNotificationService_ListUnreadCollapsesMessages(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := notifFixture()
	target := "g1"
	roomID := "r1"

	// три чат-пинга одной пары + одно событие
	for _, content := range []string{"раз", "два", "три"} {
		_, err := svc.Dispatch("m1", &dto.DispatchNotificationRequest{
			Type:       "MESSAGE",
			Title:      "Менеджер",
			Content:    content,
			TargetUser: &target,
			ChatRoomID: &roomID,
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}
	_, err := svc.Dispatch("m1", &dto.DispatchNotificationRequest{
		Type:    "EVENT",
		Title:   "Событие",
		Content: "x",
	})
	require.NoError(t, err)

	unread, err := svc.ListUnread("g1")
	require.NoError(t, err)

	// серия MESSAGE схлопнута до новейшего
	require.Len(t, unread, 2)
	assert.Equal(t, "EVENT", unread[0].NotificationType)
	assert.Equal(t, "MESSAGE", unread[1].NotificationType)
	assert.Equal(t, "три", unread[1].Content)

	count, err := svc.UnreadCount("g1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNotificationService_MarkReadCollapsesMessageSeries(t *testing.T) {
	t.Parallel()

	svc, repo, _, _, _ := notifFixture()
	target := "g1"
	roomID := "r1"

	var lastID string
	for _, content := range []string{"раз", "два"} {
		resp, err := svc.Dispatch("m1", &dto.DispatchNotificationRequest{
			Type:       "MESSAGE",
			Title:      "Менеджер",
			Content:    content,
			TargetUser: &target,
			ChatRoomID: &roomID,
		})
		require.NoError(t, err)
		lastID = resp.ID
	}

	require.NoError(t, svc.MarkRead("g1", lastID))

	// одно действие закрыло всю серию пары (отправитель, комната)
	assert.Equal(t, 1, repo.markBySenderRoomCalls)
	unread, err := svc.ListUnread("g1")
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotificationService_MarkReadEventMarksOnlyItself(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := notifFixture()

	first, err := svc.Dispatch("m1", &dto.DispatchNotificationRequest{
		Type:    "EVENT",
		Title:   "Первое",
		Content: "x",
	})
	require.NoError(t, err)
	_, err = svc.Dispatch("m1", &dto.DispatchNotificationRequest{
		Type:    "EVENT",
		Title:   "Второе",
		Content: "y",
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead("g1", first.ID))

	unread, err := svc.ListUnread("g1")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "Второе", unread[0].Title)
}

func TestNotificationService_NotifyChatMessage(t *testing.T) {
	t.Parallel()

	svc, repo, users, _, broker := notifFixture()
	sender, err := users.FindByID("m1")
	require.NoError(t, err)
	room := &chatmodels.ChatRoom{ID: "r1", PropertyID: "p1", CheckInID: "ci1"}

	require.NoError(t, svc.NotifyChatMessage(context.Background(), sender, room, "g1", "Добрый день"))

	require.Len(t, repo.notifications, 1)
	n := repo.notifications[0]
	assert.Equal(t, models.NotificationTypeMessage, n.Type)
	assert.Equal(t, "Менеджер", n.Title)
	require.NotNil(t, n.ChatRoomID)
	assert.Equal(t, "r1", *n.ChatRoomID)

	require.Len(t, broker.frames(ws.NotificationsGroup("g1")), 1)
}
