package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"lasexta-backend/internal/email"
	"lasexta-backend/internal/models"
	"lasexta-backend/internal/utils"
)

var (
	ErrTicketNotFound = errors.New("ticket not found or already used")
)

const (
	// DefaultTicketValidityDays applies when the admin does not pick one.
	DefaultTicketValidityDays = 7

	// maxTicketsPerUser is the retention invariant: issuing a new ticket
	// physically deletes the oldest ones down to this total.
	maxTicketsPerUser = 2
)

// TicketService issues, delivers and validates drink vouchers
type TicketService struct {
	db            *gorm.DB
	mail          email.Sender
	notifications *NotificationService
}

// NewTicketService creates a new TicketService
func NewTicketService(db *gorm.DB, mail email.Sender, notifications *NotificationService) *TicketService {
	return &TicketService{db: db, mail: mail, notifications: notifications}
}

// Issue creates a new valid ticket for the user. If the user already
// holds maxTicketsPerUser tickets of any status, the oldest ones are
// deleted first so the new ticket lands in a set of exactly two.
func (s *TicketService) Issue(userID string, validityDays int, adminID string) (*models.Ticket, error) {
	if validityDays <= 0 {
		validityDays = DefaultTicketValidityDays
	}

	var user models.User
	err := s.db.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	code, err := utils.GenerateTicketCode()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().AddDate(0, 0, validityDays)
	ticket := models.Ticket{
		UserID:    userID,
		Code:      code,
		Status:    models.TicketStatusValid,
		ExpiresAt: &expiresAt,
	}
	if adminID != "" {
		ticket.IssuedBy = &adminID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.Ticket
		if err := tx.Where("user_id = ?", userID).Order("created_at ASC").Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) >= maxTicketsPerUser {
			// Keep only the most recent one; with the insert below the
			// user ends up holding exactly two.
			excess := existing[:len(existing)-1]
			ids := make([]string, 0, len(excess))
			for _, t := range excess {
				ids = append(ids, t.ID)
			}
			if err := tx.Where("id IN ?", ids).Delete(&models.Ticket{}).Error; err != nil {
				return err
			}
		}

		return tx.Create(&ticket).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue ticket: %w", err)
	}

	return &ticket, nil
}

// Send emails the ticket code to its owner and records an in-app
// notification. An email failure is returned to the caller and leaves
// the ticket untouched; the admin retries explicitly.
func (s *TicketService) Send(userID, ticketID string) error {
	var ticket models.Ticket
	err := s.db.Where("id = ? AND user_id = ?", ticketID, userID).First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTicketNotFound
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	var user models.User
	err = s.db.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if s.mail == nil {
		return fmt.Errorf("email sender not configured")
	}
	if err := s.mail.SendTicket(user.Email, user.Nombre, ticket.Code, ticket.CreatedAt, ticket.ExpiresAt); err != nil {
		return err
	}

	notifyErr := s.notifications.Create(
		userID,
		models.NotificationTicket,
		"¡Nuevo Ticket Recibido!",
		fmt.Sprintf("Has recibido un nuevo ticket. Código: %s", ticket.Code),
		models.JSONB{"ticketId": ticket.ID},
	)
	if notifyErr != nil {
		log.Printf("Warning: failed to create ticket notification for user %s: %v", userID, notifyErr)
	}

	return nil
}

// ValidateByCode flips a valid ticket to used, keyed by its QR code.
// The status predicate lives inside the UPDATE, so of two concurrent
// calls on the same code at most one succeeds.
func (s *TicketService) ValidateByCode(code, adminID string) (*models.Ticket, error) {
	return s.consume("code = ?", code, adminID)
}

// MarkUsed is the same transition keyed by ticket id.
func (s *TicketService) MarkUsed(ticketID, adminID string) (*models.Ticket, error) {
	return s.consume("id = ?", ticketID, adminID)
}

func (s *TicketService) consume(predicate, arg, adminID string) (*models.Ticket, error) {
	updates := map[string]interface{}{
		"status":  models.TicketStatusUsed,
		"used_at": time.Now(),
	}
	if adminID != "" {
		updates["issued_by"] = adminID
	}

	res := s.db.Model(&models.Ticket{}).
		Where(predicate+" AND status = ?", arg, models.TicketStatusValid).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("database error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Covers "never existed" and "already used" alike; callers are
		// not told which.
		return nil, ErrTicketNotFound
	}

	var ticket models.Ticket
	if err := s.db.Where(predicate, arg).First(&ticket).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &ticket, nil
}

// ActiveForUser returns the still-valid tickets among the user's two
// most recent ones.
func (s *TicketService) ActiveForUser(userID string) ([]models.Ticket, error) {
	recent, err := s.recentForUser(userID)
	if err != nil {
		return nil, err
	}

	active := make([]models.Ticket, 0, len(recent))
	for _, t := range recent {
		if t.Status == models.TicketStatusValid {
			active = append(active, t)
		}
	}
	return active, nil
}

// HistoryForUser returns the used/expired tickets among the user's two
// most recent ones.
func (s *TicketService) HistoryForUser(userID string) ([]models.Ticket, error) {
	recent, err := s.recentForUser(userID)
	if err != nil {
		return nil, err
	}

	history := make([]models.Ticket, 0, len(recent))
	for _, t := range recent {
		if t.Status != models.TicketStatusValid {
			history = append(history, t)
		}
	}
	return history, nil
}

func (s *TicketService) recentForUser(userID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(maxTicketsPerUser).
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return tickets, nil
}

// TicketsForUser returns every retained ticket of one user, newest first.
func (s *TicketService) TicketsForUser(userID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return tickets, nil
}

// AllTickets returns every ticket with its owner preloaded, optionally
// filtered by status, newest first.
func (s *TicketService) AllTickets(statusFilter string) ([]models.Ticket, error) {
	query := s.db.Preload("User").Order("created_at DESC")
	if statusFilter != "" && models.ValidTicketStatus(statusFilter) {
		query = query.Where("status = ?", statusFilter)
	}

	var tickets []models.Ticket
	if err := query.Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return tickets, nil
}
