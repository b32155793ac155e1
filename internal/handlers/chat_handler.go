package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhub_backend/internal/middleware"
	"stayhub_backend/internal/services"
	"stayhub_backend/internal/services/dto"
	"stayhub_backend/pkg/apperrors"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

// RegisterRoutes регистрирует маршруты чата; все требуют аутентификации
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chat := rg.Group("/chat")
	chat.Use(middleware.AuthMiddleware())
	{
		chat.GET("/rooms", h.ListRooms)
		chat.GET("/rooms/unread-count", h.UnreadRoomCount)
		chat.GET("/rooms/:roomId", h.RoomDetail)
		chat.POST("/rooms/:roomId/answered", h.SetAnswered)
		chat.POST("/upload", h.Upload)
	}
}

func (h *ChatHandler) ListRooms(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	sub := middleware.GetSubject(c)

	rooms, err := h.chatService.ListRooms(sub, c.Query("property_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *ChatHandler) UnreadRoomCount(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	sub := middleware.GetSubject(c)

	count, err := h.chatService.UnreadRoomCount(sub)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UnreadRoomCountResponse{UnreadRooms: count})
}

func (h *ChatHandler) RoomDetail(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	sub := middleware.GetSubject(c)

	detail, err := h.chatService.RoomDetail(sub, c.Param("roomId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *ChatHandler) SetAnswered(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	sub := middleware.GetSubject(c)

	var req dto.SetAnsweredRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.chatService.SetAnswered(sub, c.Param("roomId"), req.IsAnswered); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room answered status updated"})
}

// Upload принимает вложение чата (multipart) и возвращает URL файла,
// который затем отправляется сообщением через websocket
func (h *ChatHandler) Upload(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("File is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	resp, err := h.chatService.SaveAttachment(
		c.Request.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
