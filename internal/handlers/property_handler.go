package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhub_backend/internal/middleware"
	"stayhub_backend/internal/models"
	"stayhub_backend/internal/services"
	"stayhub_backend/internal/services/dto"
)

type PropertyHandler struct {
	*BaseHandler
	propertyService services.PropertyService
}

func NewPropertyHandler(base *BaseHandler, propertyService services.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		BaseHandler:     base,
		propertyService: propertyService,
	}
}

func (h *PropertyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	properties := rg.Group("/properties")
	properties.Use(middleware.AuthMiddleware())
	{
		properties.GET("", h.List)
		properties.GET("/:id", h.Get)
		properties.GET("/:id/rooms", h.ListRooms)

		// Управление отелями - только админ
		admin := properties.Group("")
		admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
		{
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.POST("/:id/rooms", h.CreateRoom)
			admin.POST("/:id/managers", h.AssignManager)
			admin.DELETE("/:id/managers/:userId", h.RemoveManager)
		}
	}
}

func (h *PropertyHandler) Create(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	sub := middleware.GetSubject(c)

	var req dto.CreatePropertyRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	property, err := h.propertyService.Create(sub, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.propertyService.Get(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) List(c *gin.Context) {
	properties, err := h.propertyService.List()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

func (h *PropertyHandler) Update(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	sub := middleware.GetSubject(c)

	var req dto.UpdatePropertyRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	property, err := h.propertyService.Update(sub, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) CreateRoom(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	sub := middleware.GetSubject(c)

	var req dto.CreateHotelRoomRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	room, err := h.propertyService.CreateRoom(sub, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (h *PropertyHandler) ListRooms(c *gin.Context) {
	rooms, err := h.propertyService.ListRooms(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *PropertyHandler) AssignManager(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	sub := middleware.GetSubject(c)

	var req dto.AssignManagerRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.propertyService.AssignManager(sub, c.Param("id"), req.UserID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Manager assigned"})
}

func (h *PropertyHandler) RemoveManager(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	sub := middleware.GetSubject(c)

	if err := h.propertyService.RemoveManager(sub, c.Param("id"), c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Manager removed"})
}
