package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhub_backend/internal/middleware"
	"stayhub_backend/internal/services"
	"stayhub_backend/internal/services/dto"
)

type CheckInHandler struct {
	*BaseHandler
	checkInService services.CheckInService
}

func NewCheckInHandler(base *BaseHandler, checkInService services.CheckInService) *CheckInHandler {
	return &CheckInHandler{
		BaseHandler:    base,
		checkInService: checkInService,
	}
}

func (h *CheckInHandler) RegisterRoutes(rg *gin.RouterGroup) {
	checkIns := rg.Group("/check-ins")
	checkIns.Use(middleware.AuthMiddleware())
	{
		checkIns.GET("/me", h.MyActive)

		// Заселение и выселение выполняет персонал
		checkIns.POST("", middleware.RequireStaff(), h.Create)
		checkIns.POST("/:id/checkout", middleware.RequireStaff(), h.Checkout)
	}
}

func (h *CheckInHandler) Create(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	sub := middleware.GetSubject(c)

	var req dto.CreateCheckInRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	checkIn, err := h.checkInService.Create(sub, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkIn)
}

func (h *CheckInHandler) MyActive(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	checkIn, err := h.checkInService.MyActive(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, checkIn)
}

func (h *CheckInHandler) Checkout(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	sub := middleware.GetSubject(c)

	if err := h.checkInService.Checkout(sub, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Checked out successfully"})
}
