package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skyview-backend/services"
	"skyview-backend/utils"
)

type NotificationController struct {
	notifications NotificationService
	log           Logger
}

func NewNotificationController(notifications NotificationService, log Logger) *NotificationController {
	return &NotificationController{notifications: notifications, log: log}
}

type TestMessageInput struct {
	Phone   string `json:"phone" binding:"required"`
	Message string `json:"message"`
}

type TestTemplateInput struct {
	Phone string `json:"phone" binding:"required"`
	Name  string `json:"name"`
}

func (nc *NotificationController) WhatsAppStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "whatsapp": nc.notifications.Status()})
}

func (nc *NotificationController) SendTestMessage(c *gin.Context) {
	var input TestMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Phone number is required")
		return
	}

	sid, err := nc.notifications.SendTest(c.Request.Context(), input.Phone, input.Message)
	if err != nil {
		nc.respondSendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Test message sent successfully", "sid": sid})
}

func (nc *NotificationController) SendTestTemplate(c *gin.Context) {
	var input TestTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Phone number is required")
		return
	}

	sid, err := nc.notifications.SendTestTemplate(c.Request.Context(), input.Phone, input.Name)
	if err != nil {
		nc.respondSendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Template message sent successfully", "sid": sid})
}

func (nc *NotificationController) GetNotificationLogs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := nc.notifications.Recent(c.Request.Context(), limit)
	if err != nil {
		nc.log.Error("Failed to retrieve notification logs: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve notification logs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": entries})
}

func (nc *NotificationController) respondSendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, utils.ErrInvalidPhone):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotConfigured), errors.Is(err, services.ErrNoTemplate):
		utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		nc.log.Error("WhatsApp test message failed: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to send WhatsApp message: "+err.Error())
	}
}
