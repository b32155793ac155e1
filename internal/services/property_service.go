package services

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"

	"stayhub_backend/internal/access"
	"stayhub_backend/internal/models"
	"stayhub_backend/internal/repositories"
	"stayhub_backend/internal/services/dto"
	"stayhub_backend/pkg/apperrors"
)

// PropertyService - отели, номера и назначение менеджеров.
// Создание и изменение - только админ; список доступен персоналу.
type PropertyService interface {
	Create(sub access.Subject, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error)
	Get(propertyID string) (*dto.PropertyResponse, error)
	List() ([]dto.PropertyResponse, error)
	Update(sub access.Subject, propertyID string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error)

	CreateRoom(sub access.Subject, propertyID string, req *dto.CreateHotelRoomRequest) (*dto.HotelRoomResponse, error)
	ListRooms(propertyID string) ([]dto.HotelRoomResponse, error)

	AssignManager(sub access.Subject, propertyID, userID string) error
	RemoveManager(sub access.Subject, propertyID, userID string) error
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
	userRepo     repositories.UserRepository
}

func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	userRepo repositories.UserRepository,
) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
	}
}

func (s *propertyService) Create(sub access.Subject, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	if sub.Role != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	amenities, err := marshalAmenities(req.Amenities)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	property := &models.Property{
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		Amenities: amenities,
	}
	if err := s.propertyRepo.Create(property); err != nil {
		return nil, apperrors.ErrDatabase(err, "property")
	}
	return buildPropertyResponse(property), nil
}

func (s *propertyService) Get(propertyID string) (*dto.PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(propertyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.ErrNotFound(err, "property", "отель не найден")
		}
		return nil, apperrors.ErrDatabase(err, "property")
	}
	return buildPropertyResponse(property), nil
}

func (s *propertyService) List() ([]dto.PropertyResponse, error) {
	properties, err := s.propertyRepo.List()
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "property")
	}
	responses := make([]dto.PropertyResponse, 0, len(properties))
	for i := range properties {
		responses = append(responses, *buildPropertyResponse(&properties[i]))
	}
	return responses, nil
}

func (s *propertyService) Update(sub access.Subject, propertyID string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	if sub.Role != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	property, err := s.propertyRepo.FindByID(propertyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.ErrNotFound(err, "property", "отель не найден")
		}
		return nil, apperrors.ErrDatabase(err, "property")
	}

	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.Phone != nil {
		property.Phone = *req.Phone
	}
	if req.Amenities != nil {
		amenities, err := marshalAmenities(req.Amenities)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		property.Amenities = amenities
	}

	if err := s.propertyRepo.Update(property); err != nil {
		return nil, apperrors.ErrDatabase(err, "property")
	}
	return buildPropertyResponse(property), nil
}

func (s *propertyService) CreateRoom(sub access.Subject, propertyID string, req *dto.CreateHotelRoomRequest) (*dto.HotelRoomResponse, error) {
	if sub.Role != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if _, err := s.propertyRepo.FindByID(propertyID); err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.ErrNotFound(err, "property", "отель не найден")
		}
		return nil, apperrors.ErrDatabase(err, "property")
	}

	room := &models.HotelRoom{
		PropertyID: propertyID,
		RoomNumber: req.RoomNumber,
		Floor:      req.Floor,
		Capacity:   req.Capacity,
	}
	if err := s.propertyRepo.CreateRoom(room); err != nil {
		return nil, apperrors.ErrDatabase(err, "property")
	}
	return buildHotelRoomResponse(room), nil
}

func (s *propertyService) ListRooms(propertyID string) ([]dto.HotelRoomResponse, error) {
	rooms, err := s.propertyRepo.FindRoomsByProperty(propertyID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "property")
	}
	responses := make([]dto.HotelRoomResponse, 0, len(rooms))
	for i := range rooms {
		responses = append(responses, *buildHotelRoomResponse(&rooms[i]))
	}
	return responses, nil
}

func (s *propertyService) AssignManager(sub access.Subject, propertyID, userID string) error {
	if sub.Role != models.UserRoleAdmin {
		return apperrors.ErrInsufficientPermissions
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err, "property", "пользователь не найден")
		}
		return apperrors.ErrDatabase(err, "property")
	}

	// менеджерские права получает только пользователь с ролью manager
	if user.Role != models.UserRoleManager {
		user.Role = models.UserRoleManager
		if err := s.userRepo.Update(user); err != nil {
			return apperrors.ErrDatabase(err, "property")
		}
	}

	if err := s.propertyRepo.AddManager(propertyID, userID); err != nil {
		return apperrors.ErrDatabase(err, "property")
	}
	return nil
}

func (s *propertyService) RemoveManager(sub access.Subject, propertyID, userID string) error {
	if sub.Role != models.UserRoleAdmin {
		return apperrors.ErrInsufficientPermissions
	}
	if err := s.propertyRepo.RemoveManager(propertyID, userID); err != nil {
		return apperrors.ErrDatabase(err, "property")
	}
	return nil
}

func marshalAmenities(amenities []string) (datatypes.JSON, error) {
	if len(amenities) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(amenities)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func buildPropertyResponse(property *models.Property) *dto.PropertyResponse {
	resp := &dto.PropertyResponse{
		ID:      property.ID,
		Name:    property.Name,
		Address: property.Address,
		Phone:   property.Phone,
	}
	if len(property.Amenities) > 0 {
		// поврежденный JSON в БД не должен ронять выдачу
		_ = json.Unmarshal(property.Amenities, &resp.Amenities)
	}
	for i := range property.Rooms {
		resp.Rooms = append(resp.Rooms, *buildHotelRoomResponse(&property.Rooms[i]))
	}
	return resp
}

func buildHotelRoomResponse(room *models.HotelRoom) *dto.HotelRoomResponse {
	return &dto.HotelRoomResponse{
		ID:         room.ID,
		PropertyID: room.PropertyID,
		RoomNumber: room.RoomNumber,
		Floor:      room.Floor,
		Capacity:   room.Capacity,
	}
}
