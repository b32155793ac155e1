package services

import (
	"errors"
	"time"

	"stayhub_backend/internal/access"
	"stayhub_backend/internal/auth"
	"stayhub_backend/internal/logger"
	"stayhub_backend/internal/models"
	"stayhub_backend/internal/repositories"
	"stayhub_backend/internal/services/dto"
	"stayhub_backend/pkg/apperrors"
)

// CheckInService - жизненный цикл проживания: заселение с временным
// кодом, выселение с выключением комнаты чата, авто-чекаут просроченных.
type CheckInService interface {
	// Create заселяет гостя (менеджер своего отеля или админ);
	// генерирует TempCode и сразу создает комнату чата
	Create(sub access.Subject, req *dto.CreateCheckInRequest) (*dto.CheckInResponse, error)

	// MyActive - активный чек-ин самого гостя
	MyActive(userID string) (*dto.CheckInResponse, error)

	// Checkout выселяет гостя и выключает его комнату чата (ровно один раз)
	Checkout(sub access.Subject, checkInID string) error

	// ProcessOverdue выселяет всех, чья дата выезда прошла; возвращает
	// число обработанных чек-инов (вызывается фоновым воркером)
	ProcessOverdue(now time.Time) (int, error)
}

type checkInService struct {
	checkInRepo  repositories.CheckInRepository
	userRepo     repositories.UserRepository
	propertyRepo repositories.PropertyRepository
	chatService  ChatService
}

func NewCheckInService(
	checkInRepo repositories.CheckInRepository,
	userRepo repositories.UserRepository,
	propertyRepo repositories.PropertyRepository,
	chatService ChatService,
) CheckInService {
	return &checkInService{
		checkInRepo:  checkInRepo,
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		chatService:  chatService,
	}
}

const checkInDateLayout = "2006-01-02"

func (s *checkInService) Create(sub access.Subject, req *dto.CreateCheckInRequest) (*dto.CheckInResponse, error) {
	if !sub.Role.IsStaff() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	guest, err := s.userRepo.FindByEmail(req.UserEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "checkin", "гость с таким e-mail не найден")
		}
		return nil, apperrors.ErrDatabase(err, "checkin")
	}

	hotelRoom, err := s.propertyRepo.FindRoomByID(req.HotelRoomID)
	if err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.ErrNotFound(err, "checkin", "номер не найден")
		}
		return nil, apperrors.ErrDatabase(err, "checkin")
	}

	// менеджер заселяет только в свои отели
	if sub.Role == models.UserRoleManager {
		isManager, err := s.propertyRepo.IsManagerOf(sub.UserID, hotelRoom.PropertyID)
		if err != nil {
			return nil, apperrors.ErrDatabase(err, "checkin")
		}
		if !isManager {
			return nil, apperrors.ErrInsufficientPermissions
		}
	}

	checkInDate, err := time.Parse(checkInDateLayout, req.CheckInDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("check_in_date: ожидается формат YYYY-MM-DD")
	}
	checkOutDate, err := time.Parse(checkInDateLayout, req.CheckOutDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("check_out_date: ожидается формат YYYY-MM-DD")
	}
	if !checkOutDate.After(checkInDate) && !req.IsDayUse {
		return nil, apperrors.NewBadRequestError("дата выезда должна быть позже даты заезда")
	}

	if existing, err := s.checkInRepo.FindActiveByUser(guest.ID); err == nil && existing != nil {
		return nil, apperrors.ErrConflict(nil, "checkin", "у гостя уже есть активный чек-ин")
	}

	tempCode, err := auth.GenerateNumericCode(6)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	checkIn := &models.CheckIn{
		UserID:       guest.ID,
		HotelRoomID:  hotelRoom.ID,
		PropertyID:   hotelRoom.PropertyID,
		CheckInDate:  checkInDate,
		CheckOutDate: checkOutDate,
		TempCode:     tempCode,
		IsDayUse:     req.IsDayUse,
	}
	if err := s.checkInRepo.Create(checkIn); err != nil {
		return nil, apperrors.ErrDatabase(err, "checkin")
	}
	checkIn.User = guest
	checkIn.HotelRoom = hotelRoom

	// комнату чата открываем сразу, чтобы гость мог писать с момента заселения
	room, err := s.chatService.GetOrCreateRoom(checkIn)
	if err != nil {
		return nil, err
	}

	resp := buildCheckInResponse(checkIn)
	resp.ChatRoomID = room.ID
	return resp, nil
}

func (s *checkInService) MyActive(userID string) (*dto.CheckInResponse, error) {
	checkIn, err := s.checkInRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCheckInNotFound) {
			return nil, apperrors.ErrNotFound(err, "checkin", "активный чек-ин не найден")
		}
		return nil, apperrors.ErrDatabase(err, "checkin")
	}
	return buildCheckInResponse(checkIn), nil
}

func (s *checkInService) Checkout(sub access.Subject, checkInID string) error {
	if !sub.Role.IsStaff() {
		return apperrors.ErrInsufficientPermissions
	}

	checkIn, err := s.checkInRepo.FindByID(checkInID)
	if err != nil {
		if errors.Is(err, repositories.ErrCheckInNotFound) {
			return apperrors.ErrNotFound(err, "checkin", "чек-ин не найден")
		}
		return apperrors.ErrDatabase(err, "checkin")
	}
	if checkIn.CheckedOut {
		return apperrors.ErrInvalidOperation("checkin", "гость уже выселен")
	}

	if sub.Role == models.UserRoleManager {
		isManager, err := s.propertyRepo.IsManagerOf(sub.UserID, checkIn.PropertyID)
		if err != nil {
			return apperrors.ErrDatabase(err, "checkin")
		}
		if !isManager {
			return apperrors.ErrInsufficientPermissions
		}
	}

	return s.checkout(checkIn)
}

// checkout помечает выселение и выключает комнату чата
func (s *checkInService) checkout(checkIn *models.CheckIn) error {
	if err := s.checkInRepo.MarkCheckedOut(checkIn.ID); err != nil {
		return apperrors.ErrDatabase(err, "checkin")
	}
	if err := s.chatService.DeactivateForCheckIn(checkIn.ID); err != nil {
		return err
	}
	logger.Info("гость выселен", "check_in_id", checkIn.ID, "property_id", checkIn.PropertyID)
	return nil
}

func (s *checkInService) ProcessOverdue(now time.Time) (int, error) {
	overdue, err := s.checkInRepo.FindOverdue(now)
	if err != nil {
		return 0, apperrors.ErrDatabase(err, "checkin")
	}

	processed := 0
	for i := range overdue {
		if err := s.checkout(&overdue[i]); err != nil {
			logger.WithError(err).Error("авто-чекаут не удался", "check_in_id", overdue[i].ID)
			continue
		}
		processed++
	}
	return processed, nil
}

func buildCheckInResponse(checkIn *models.CheckIn) *dto.CheckInResponse {
	resp := &dto.CheckInResponse{
		ID:           checkIn.ID,
		UserID:       checkIn.UserID,
		PropertyID:   checkIn.PropertyID,
		HotelRoomID:  checkIn.HotelRoomID,
		CheckInDate:  checkIn.CheckInDate.Format(checkInDateLayout),
		CheckOutDate: checkIn.CheckOutDate.Format(checkInDateLayout),
		TempCode:     checkIn.TempCode,
		CheckedOut:   checkIn.CheckedOut,
		IsDayUse:     checkIn.IsDayUse,
	}
	if checkIn.User != nil {
		resp.GuestName = checkIn.User.Name
	}
	if checkIn.HotelRoom != nil {
		resp.RoomNumber = checkIn.HotelRoom.RoomNumber
	}
	return resp
}
