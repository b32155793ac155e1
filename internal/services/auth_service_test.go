package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub_backend/internal/auth"
	"stayhub_backend/internal/config"
	"stayhub_backend/internal/models"
	"stayhub_backend/internal/services/dto"
	"stayhub_backend/internal/utils"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeCheckInRepo) {
	t.Helper()

	users := newFakeUserRepo()
	checkIns := newFakeCheckInRepo()
	svc := NewAuthService(users, checkIns, utils.NewEmailSender(config.GetConfig()))
	return svc, users, checkIns
}

func TestAuthService_RegisterAndVerify(t *testing.T) {
	t.Parallel()

	svc, users, _ := newAuthFixture(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "Kim@Example.com",
		Password: "secret-password-1",
		Name:     "Ким",
		Language: "en",
	})
	require.NoError(t, err)

	// e-mail нормализован, язык приведен к верхнему регистру
	assert.Equal(t, "kim@example.com", resp.Email)
	assert.Equal(t, "EN", resp.Language)
	assert.Equal(t, string(models.UserRoleGeneral), resp.Role)
	assert.False(t, resp.EmailVerified)

	user, err := users.FindByEmail("kim@example.com")
	require.NoError(t, err)
	require.Len(t, user.EmailCode, 6)
	// пароль не хранится в открытом виде
	assert.NotEqual(t, "secret-password-1", user.PasswordHash)

	// неверный код отклоняется
	err = svc.VerifyEmail(&dto.VerifyEmailRequest{Email: "kim@example.com", Code: "000000"})
	require.Error(t, err)

	require.NoError(t, svc.VerifyEmail(&dto.VerifyEmailRequest{
		Email: "kim@example.com",
		Code:  user.EmailCode,
	}))
	assert.True(t, user.EmailVerified)
	assert.Empty(t, user.EmailCode)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _, _ := newAuthFixture(t)
	req := &dto.RegisterRequest{
		Email:    "kim@example.com",
		Password: "secret-password-1",
		Name:     "Ким",
		Language: "EN",
	}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	require.Error(t, err)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	svc, users, _ := newAuthFixture(t)
	hash, err := auth.HashPassword("correct-password")
	require.NoError(t, err)

	user := &models.User{
		Email:         "kim@example.com",
		PasswordHash:  hash,
		Name:          "Ким",
		Role:          models.UserRoleGeneral,
		EmailVerified: true,
	}
	user.ID = "g1"
	require.NoError(t, users.Create(user))

	resp, err := svc.Login(&dto.LoginRequest{Email: "kim@example.com", Password: "correct-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "g1", resp.User.ID)

	claims, err := auth.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "g1", claims.UserID)
	assert.Equal(t, models.UserRoleGeneral, claims.Role)

	_, err = svc.Login(&dto.LoginRequest{Email: "kim@example.com", Password: "wrong"})
	require.Error(t, err)
	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "x"})
	require.Error(t, err)
}

func TestAuthService_LoginRequiresVerifiedEmail(t *testing.T) {
	t.Parallel()

	svc, users, _ := newAuthFixture(t)
	hash, err := auth.HashPassword("correct-password")
	require.NoError(t, err)
	user := &models.User{Email: "kim@example.com", PasswordHash: hash, Role: models.UserRoleGeneral}
	user.ID = "g1"
	require.NoError(t, users.Create(user))

	_, err = svc.Login(&dto.LoginRequest{Email: "kim@example.com", Password: "correct-password"})
	require.Error(t, err)
}

func TestAuthService_TempLogin(t *testing.T) {
	t.Parallel()

	svc, users, checkIns := newAuthFixture(t)
	guest := &models.User{Email: "kim@example.com", Name: "Ким", Role: models.UserRoleTemp}
	guest.ID = "g1"
	require.NoError(t, users.Create(guest))

	checkIn := &models.CheckIn{
		UserID:       "g1",
		PropertyID:   "p1",
		TempCode:     "123456",
		CheckOutDate: time.Now().Add(48 * time.Hour),
	}
	checkIn.ID = "ci1"
	require.NoError(t, checkIns.Create(checkIn))

	resp, err := svc.TempLogin(&dto.TempLoginRequest{TempCode: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "g1", resp.User.ID)

	// код выселенного гостя не работает
	checkIn.CheckedOut = true
	_, err = svc.TempLogin(&dto.TempLoginRequest{TempCode: "123456"})
	require.Error(t, err)

	_, err = svc.TempLogin(&dto.TempLoginRequest{TempCode: "999999"})
	require.Error(t, err)
}
