package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub_backend/internal/access"
	"stayhub_backend/internal/models"
	"stayhub_backend/internal/services/dto"
)

type checkInFixture struct {
	svc        CheckInService
	chat       ChatService
	checkIns   *fakeCheckInRepo
	rooms      *fakeRoomRepo
	users      *fakeUserRepo
	properties *fakePropertyRepo

	manager access.Subject
	admin   access.Subject
}

func newCheckInFixture(t *testing.T) *checkInFixture {
	t.Helper()

	guest := &models.User{Email: "kim@example.com", Name: "Ким", Role: models.UserRoleGeneral, Language: "EN"}
	guest.ID = "g1"
	manager := &models.User{Email: "mgr@example.com", Name: "Менеджер", Role: models.UserRoleManager}
	manager.ID = "m1"
	users := newFakeUserRepo(guest, manager)

	properties := newFakePropertyRepo()
	property := &models.Property{Name: "StayHub Seoul"}
	property.ID = "p1"
	require.NoError(t, properties.Create(property))
	require.NoError(t, properties.AddManager("p1", "m1"))
	hotelRoom := &models.HotelRoom{PropertyID: "p1", RoomNumber: "1203"}
	hotelRoom.ID = "hr1"
	require.NoError(t, properties.CreateRoom(hotelRoom))

	checkIns := newFakeCheckInRepo()
	rooms := newFakeRoomRepo()

	chatSvc := NewChatService(
		rooms, &fakeMessageRepo{}, newFakeParticipantRepo(), checkIns, users, properties,
		access.NewEvaluator(checkIns, properties),
		newFakeStorage(), 1024,
	)
	svc := NewCheckInService(checkIns, users, properties, chatSvc)

	return &checkInFixture{
		svc:        svc,
		chat:       chatSvc,
		checkIns:   checkIns,
		rooms:      rooms,
		users:      users,
		properties: properties,
		manager:    access.Subject{UserID: "m1", Role: models.UserRoleManager},
		admin:      access.Subject{UserID: "a1", Role: models.UserRoleAdmin},
	}
}

func validCreateRequest() *dto.CreateCheckInRequest {
	return &dto.CreateCheckInRequest{
		UserEmail:    "kim@example.com",
		HotelRoomID:  "hr1",
		CheckInDate:  "2026-09-01",
		CheckOutDate: "2026-09-05",
	}
}

func TestCheckInService_CreateGeneratesTempCodeAndChatRoom(t *testing.T) {
	t.Parallel()

	fx := newCheckInFixture(t)

	resp, err := fx.svc.Create(fx.manager, validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "g1", resp.UserID)
	assert.Equal(t, "p1", resp.PropertyID)
	assert.Equal(t, "1203", resp.RoomNumber)
	assert.Len(t, resp.TempCode, 6)
	require.NotEmpty(t, resp.ChatRoomID)

	room, err := fx.rooms.FindByID(resp.ChatRoomID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, room.CheckInID)
	assert.True(t, room.IsActive)
}

func TestCheckInService_CreateForbiddenForGuestRole(t *testing.T) {
	t.Parallel()

	fx := newCheckInFixture(t)
	guest := access.Subject{UserID: "g1", Role: models.UserRoleGeneral}

	_, err := fx.svc.Create(guest, validCreateRequest())
	require.Error(t, err)
}

func TestCheckInService_CreateManagerOfOtherPropertyForbidden(t *testing.T) {
	t.Parallel()

	fx := newCheckInFixture(t)
	otherProperty := &models.Property{Name: "Другой отель"}
	otherProperty.ID = "p2"
	require.NoError(t, fx.properties.Create(otherProperty))
	otherRoom := &models.HotelRoom{PropertyID: "p2", RoomNumber: "101"}
	otherRoom.ID = "hr2"
	require.NoError(t, fx.properties.CreateRoom(otherRoom))

	req := validCreateRequest()
	req.HotelRoomID = "hr2"

	_, err := fx.svc.Create(fx.manager, req)
	require.Error(t, err)
}

func TestCheckInService_CreateRejectsSecondActiveCheckIn(t *testing.T) {
	t.Parallel()

	fx := newCheckInFixture(t)

	_, err := fx.svc.Create(fx.manager, validCreateRequest())
	require.NoError(t, err)
	_, err = fx.svc.Create(fx.manager, validCreateRequest())
	require.Error(t, err)
}

func TestCheckInService_CreateValidatesDates(t *testing.T) {
	t.Parallel()

	fx := newCheckInFixture(t)
	req := validCreateRequest()
	req.CheckOutDate = "2026-08-30"

	_, err := fx.svc.Create(fx.manager, req)
	require.Error(t, err)

	// day-use разрешает выезд в день заезда
	req = validCreateRequest()
	req.CheckOutDate = req.CheckInDate
	req.IsDayUse = true
	_, err = fx.svc.Create(fx.manager, req)
	require.NoError(t, err)
}

func TestCheckInService_CheckoutDeactivatesRoomExactlyOnce(t *testing.T) {
	t.Parallel()

	fx := newCheckInFixture(t)
	created, err := fx.svc.Create(fx.manager, validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, fx.svc.Checkout(fx.manager, created.ID))

	checkIn, err := fx.checkIns.FindByID(created.ID)
	require.NoError(t, err)
	assert.True(t, checkIn.CheckedOut)

	room, err := fx.rooms.FindByID(created.ChatRoomID)
	require.NoError(t, err)
	assert.False(t, room.IsActive)

	// повторный чекаут отклоняется
	err = fx.svc.Checkout(fx.manager, created.ID)
	require.Error(t, err)
}

func TestCheckInService_MyActive(t *testing.T) {
	t.Parallel()

	fx := newCheckInFixture(t)
	created, err := fx.svc.Create(fx.manager, validCreateRequest())
	require.NoError(t, err)

	active, err := fx.svc.MyActive("g1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, active.ID)

	_, err = fx.svc.MyActive("nobody")
	require.Error(t, err)
}

func TestCheckInService_ProcessOverdue(t *testing.T) {
	t.Parallel()

	fx := newCheckInFixture(t)
	created, err := fx.svc.Create(fx.manager, validCreateRequest())
	require.NoError(t, err)

	// до даты выезда ничего не происходит
	processed, err := fx.svc.ProcessOverdue(time.Date(2026, 9, 3, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, processed)

	processed, err = fx.svc.ProcessOverdue(time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	checkIn, err := fx.checkIns.FindByID(created.ID)
	require.NoError(t, err)
	assert.True(t, checkIn.CheckedOut)

	room, err := fx.rooms.FindByCheckIn(created.ID)
	require.NoError(t, err)
	assert.False(t, room.IsActive)
}
