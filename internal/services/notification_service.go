package services

import (
	"fmt"

	"gorm.io/gorm"

	"lasexta-backend/internal/models"
)

// notificationPageSize caps how many notifications a client poll returns.
const notificationPageSize = 50

// NotificationService manages best-effort in-app notifications
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Create stores a notification for a user. Callers treat failures as
// non-fatal: notifications are best-effort side effects.
func (s *NotificationService) Create(userID, tipo, titulo, mensaje string, metadata models.JSONB) error {
	notification := models.Notification{
		UserID:   userID,
		Tipo:     tipo,
		Titulo:   titulo,
		Mensaje:  mensaje,
		Metadata: metadata,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListForUser returns the user's most recent notifications
func (s *NotificationService) ListForUser(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(notificationPageSize).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns how many notifications the user has not read
func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND leida = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return count, nil
}

// MarkRead flips the read flag on the given notifications, or on all of
// the user's unread notifications when ids is empty.
func (s *NotificationService) MarkRead(userID string, ids []string) error {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	} else {
		query = query.Where("leida = ?", false)
	}
	if err := query.Update("leida", true).Error; err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
