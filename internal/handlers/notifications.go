package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lasexta-backend/internal/auth"
	"lasexta-backend/internal/services"
)

// NotificationHandler exposes the client notification feed
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the caller's latest notifications with the unread count
// GET /api/notifications/me
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Autenticación requerida."})
		return
	}

	notifications, err := h.notificationService.ListForUser(userID)
	if err != nil {
		log.Printf("failed to list notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	unread, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		log.Printf("failed to count unread notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "noLeidas": unread})
}

// UnreadCount returns how many notifications the caller has not read
// GET /api/notifications/me/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Autenticación requerida."})
		return
	}

	unread, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		log.Printf("failed to count unread notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"noLeidas": unread})
}

// MarkRead flips the read flag on the given ids, or on everything unread
// when no ids are sent
// PATCH /api/notifications/me/mark-read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Autenticación requerida."})
		return
	}

	var req struct {
		IDs []string `json:"ids"`
	}
	// An empty body means "mark everything read".
	_ = c.ShouldBindJSON(&req)

	if err := h.notificationService.MarkRead(userID, req.IDs); err != nil {
		log.Printf("failed to mark notifications read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notificaciones marcadas como leídas."})
}
