package access

import (
	"testing"

	"stayhub_backend/internal/models"
	"stayhub_backend/internal/models/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		role     models.UserRole
		decision Decision
		want     bool
	}{
		{"админ проходит всегда", models.UserRoleAdmin, Decision{}, true},
		{"гость своей комнаты проходит", models.UserRoleGeneral, Decision{IsRoomGuest: true}, true},
		{"temp-гость своей комнаты проходит", models.UserRoleTemp, Decision{IsRoomGuest: true}, true},
		{"чужой гость не проходит", models.UserRoleGeneral, Decision{}, false},
		{"менеджер своего отеля проходит", models.UserRoleManager, Decision{IsPropertyManager: true}, true},
		{"менеджер чужого отеля не проходит", models.UserRoleManager, Decision{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := Subject{UserID: "u1", Role: tt.role}
			for _, action := range []Action{ActionRead, ActionWrite, ActionSubscribe} {
				assert.Equal(t, tt.want, Decide(sub, tt.decision, action), "action=%s", action)
			}
		})
	}
}

func TestDecideProperty(t *testing.T) {
	t.Parallel()

	assert.True(t, DecideProperty(Subject{Role: models.UserRoleAdmin}, false))
	assert.True(t, DecideProperty(Subject{Role: models.UserRoleManager}, true))
	assert.False(t, DecideProperty(Subject{Role: models.UserRoleManager}, false))
	assert.False(t, DecideProperty(Subject{Role: models.UserRoleGeneral}, true))
	assert.False(t, DecideProperty(Subject{Role: models.UserRoleTemp}, false))
}

// --- Фейки источников фактов ---

type fakeCheckIns struct {
	guestByCheckIn map[string]string // checkInID -> userID
}

func (f *fakeCheckIns) IsGuestOf(checkInID, userID string) (bool, error) {
	return f.guestByCheckIn[checkInID] == userID, nil
}

type fakeProperties struct {
	managers map[string][]string // propertyID -> userIDs
}

func (f *fakeProperties) IsManagerOf(userID, propertyID string) (bool, error) {
	for _, id := range f.managers[propertyID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func newTestEvaluator() *Evaluator {
	return NewEvaluator(
		&fakeCheckIns{guestByCheckIn: map[string]string{"ci-1": "guest-1"}},
		&fakeProperties{managers: map[string][]string{"prop-1": {"mgr-1"}}},
	)
}

func TestEvaluator_CanAccessRoom(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()
	room := &chat.ChatRoom{ID: "room-1", PropertyID: "prop-1", CheckInID: "ci-1", IsActive: true}

	tests := []struct {
		name   string
		userID string
		role   models.UserRole
		want   bool
	}{
		{"гость чек-ина", "guest-1", models.UserRoleGeneral, true},
		{"посторонний гость", "guest-2", models.UserRoleGeneral, false},
		{"менеджер отеля", "mgr-1", models.UserRoleManager, true},
		{"менеджер другого отеля", "mgr-2", models.UserRoleManager, false},
		{"админ", "anyone", models.UserRoleAdmin, true},
		// Менеджер никогда не проходит как гость, даже если guestByCheckIn совпал бы
		{"менеджер не гость", "guest-1", models.UserRoleManager, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := e.CanAccessRoom(Subject{UserID: tt.userID, Role: tt.role}, room, ActionSubscribe)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestEvaluator_CanSubscribeProperty(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()

	ok, err := e.CanSubscribeProperty(Subject{UserID: "mgr-1", Role: models.UserRoleManager}, "prop-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.CanSubscribeProperty(Subject{UserID: "mgr-1", Role: models.UserRoleManager}, "prop-2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.CanSubscribeProperty(Subject{UserID: "guest-1", Role: models.UserRoleGeneral}, "prop-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.CanSubscribeProperty(Subject{UserID: "root", Role: models.UserRoleAdmin}, "prop-2")
	require.NoError(t, err)
	assert.True(t, ok)
}
