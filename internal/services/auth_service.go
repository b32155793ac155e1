package services

import (
	"errors"
	"strings"

	"stayhub_backend/internal/auth"
	"stayhub_backend/internal/logger"
	"stayhub_backend/internal/models"
	"stayhub_backend/internal/repositories"
	"stayhub_backend/internal/services/dto"
	"stayhub_backend/internal/utils"
	"stayhub_backend/pkg/apperrors"
)

// AuthService - регистрация, подтверждение e-mail и выпуск токенов.
type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)
	VerifyEmail(req *dto.VerifyEmailRequest) error
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
	// TempLogin - вход по временному коду активного чек-ина
	// (киоск на ресепшене, гость без аккаунта в телефоне)
	TempLogin(req *dto.TempLoginRequest) (*dto.TokenResponse, error)
	Me(userID string) (*dto.UserResponse, error)
}

type authService struct {
	userRepo    repositories.UserRepository
	checkInRepo repositories.CheckInRepository
	emailSender *utils.EmailSender
}

func NewAuthService(
	userRepo repositories.UserRepository,
	checkInRepo repositories.CheckInRepository,
	emailSender *utils.EmailSender,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		checkInRepo: checkInRepo,
		emailSender: emailSender,
	}
}

func (s *authService) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := s.userRepo.FindByEmail(email); err == nil && existing != nil {
		return nil, apperrors.ErrAlreadyExists(nil, "auth", "пользователь с таким e-mail уже существует")
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	code, err := auth.GenerateNumericCode(6)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.UserRoleGeneral,
		Language:     strings.ToUpper(req.Language),
		Nationality:  req.Nationality,
		PhoneNumber:  req.PhoneNumber,
		EmailCode:    code,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperrors.ErrDatabase(err, "auth")
	}

	// письмо не должно задерживать ответ регистрации
	go func(to, code string) {
		if err := s.emailSender.SendVerificationCode(to, code); err != nil {
			logger.WithError(err).Warn("не удалось отправить код подтверждения", "email", to)
		}
	}(email, code)

	resp := buildUserResponse(user)
	return &resp, nil
}

func (s *authService) VerifyEmail(req *dto.VerifyEmailRequest) error {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidCredentials
		}
		return apperrors.ErrDatabase(err, "auth")
	}
	if user.EmailVerified {
		return nil
	}
	if user.EmailCode == "" || user.EmailCode != req.Code {
		return apperrors.NewBadRequestError("неверный код подтверждения")
	}

	user.EmailVerified = true
	user.EmailCode = ""
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.ErrDatabase(err, "auth")
	}
	return nil
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.ErrDatabase(err, "auth")
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, apperrors.NewForbiddenError("e-mail не подтвержден")
	}
	return s.issueToken(user)
}

func (s *authService) TempLogin(req *dto.TempLoginRequest) (*dto.TokenResponse, error) {
	checkIn, err := s.checkInRepo.FindByTempCode(req.TempCode)
	if err != nil {
		if errors.Is(err, repositories.ErrCheckInNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.ErrDatabase(err, "auth")
	}
	// код действует только на время проживания
	if checkIn.CheckedOut {
		return nil, apperrors.ErrInvalidCredentials
	}

	user := checkIn.User
	if user == nil {
		user, err = s.userRepo.FindByID(checkIn.UserID)
		if err != nil {
			return nil, apperrors.ErrDatabase(err, "auth")
		}
	}
	return s.issueToken(user)
}

func (s *authService) Me(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "auth", "пользователь не найден")
		}
		return nil, apperrors.ErrDatabase(err, "auth")
	}
	resp := buildUserResponse(user)
	return &resp, nil
}

func (s *authService) issueToken(user *models.User) (*dto.TokenResponse, error) {
	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.TokenResponse{
		Token: token,
		User:  buildUserResponse(user),
	}, nil
}

func buildUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          string(user.Role),
		Language:      user.Language,
		Nationality:   user.Nationality,
		PhoneNumber:   user.PhoneNumber,
		EmailVerified: user.EmailVerified,
	}
}
