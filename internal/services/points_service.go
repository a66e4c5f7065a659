package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"lasexta-backend/internal/models"
	"lasexta-backend/internal/utils"
)

var (
	ErrAlreadyAddedToday  = errors.New("point already added today")
	ErrBelowMinimumRedeem = errors.New("below minimum redeemable points")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrRedeemCodePending  = errors.New("a pending redeem code already exists")
	ErrRedeemCodeNotFound = errors.New("redeem code not found or already used")
	ErrRedeemCodeExpired  = errors.New("redeem code expired")
)

const (
	// MinPointsToRedeem is the smallest redemption a client may request.
	MinPointsToRedeem = 25

	// RedeemCodeTTL is the window the admin has to validate a code.
	RedeemCodeTTL = 15 * time.Minute

	// dailyPointAmount is what one admin visit stamp is worth.
	dailyPointAmount = 1
)

// PointsService keeps the loyalty-points ledger
type PointsService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewPointsService creates a new PointsService
func NewPointsService(db *gorm.DB, notifications *NotificationService) *PointsService {
	return &PointsService{db: db, notifications: notifications}
}

// dayWindow returns [today 00:00, tomorrow 00:00) on the server clock.
// AddPoint and CanAddPointToday share it so the boundary cannot drift.
func dayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// CanAddPointToday reports whether the user has not yet received a
// point this calendar day.
func (s *PointsService) CanAddPointToday(userID string) (bool, error) {
	return s.canAddPointToday(s.db, userID)
}

func (s *PointsService) canAddPointToday(tx *gorm.DB, userID string) (bool, error) {
	start, end := dayWindow(time.Now())

	var count int64
	err := tx.Model(&models.PointsTransaction{}).
		Where("user_id = ? AND type = ? AND created_at >= ? AND created_at < ?",
			userID, models.TransactionLoad, start, end).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count == 0, nil
}

// AddPoint credits one point to a client, at most once per calendar
// day, and appends the carga ledger entry. Returns the new balance.
func (s *PointsService) AddPoint(userID, adminID string) (int, error) {
	var newBalance int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		canAdd, err := s.canAddPointToday(tx, userID)
		if err != nil {
			return err
		}
		if !canAdd {
			return ErrAlreadyAddedToday
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND rol = ?", userID, models.RoleClient).
			Update("puntos", gorm.Expr("puntos + ?", dailyPointAmount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		transaction := models.PointsTransaction{
			UserID:      userID,
			Type:        models.TransactionLoad,
			Amount:      dailyPointAmount,
			Description: "Punto agregado por administrador",
			ProcessedBy: adminID,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		newBalance = user.Puntos
		return nil
	})
	if err != nil {
		return 0, err
	}

	if notifyErr := s.notifications.Create(
		userID,
		models.NotificationPoints,
		"¡Sumaste un punto!",
		fmt.Sprintf("Tu saldo actual es de %d puntos.", newBalance),
		models.JSONB{"puntos": dailyPointAmount},
	); notifyErr != nil {
		log.Printf("Warning: failed to create points notification for user %s: %v", userID, notifyErr)
	}

	return newBalance, nil
}

// Balance returns the user's current point balance
func (s *PointsService) Balance(userID string) (int, error) {
	var user models.User
	err := s.db.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return user.Puntos, nil
}

// Movements returns the user's latest ledger entries, newest first.
func (s *PointsService) Movements(userID string) ([]models.PointsTransaction, error) {
	var movements []models.PointsTransaction
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return movements, nil
}

// RequestRedeemCode creates a pending redeem code for the user. Points
// are not debited yet; that happens on admin validation.
func (s *PointsService) RequestRedeemCode(userID string, points int) (*models.RedeemCode, error) {
	if points < MinPointsToRedeem {
		return nil, ErrBelowMinimumRedeem
	}

	var user models.User
	err := s.db.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Puntos < points {
		return nil, ErrInsufficientPoints
	}

	var pending int64
	err = s.db.Model(&models.RedeemCode{}).
		Where("user_id = ? AND status = ?", userID, models.RedeemStatusPending).
		Count(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if pending > 0 {
		return nil, ErrRedeemCodePending
	}

	code, err := utils.GenerateRedeemCode()
	if err != nil {
		return nil, err
	}

	redeemCode := models.RedeemCode{
		UserID:    userID,
		Code:      code,
		Points:    points,
		Status:    models.RedeemStatusPending,
		ExpiresAt: time.Now().Add(RedeemCodeTTL),
	}
	if err := s.db.Create(&redeemCode).Error; err != nil {
		return nil, fmt.Errorf("failed to create redeem code: %w", err)
	}
	return &redeemCode, nil
}

// RedeemResult summarizes a processed redemption
type RedeemResult struct {
	UserName        string
	PointsRedeemed  int
	PointsRemaining int
}

// ValidateRedeemCode processes a pending code: lazily expires it when
// the 15-minute window has passed, otherwise debits the balance, marks
// the code used and appends the canje ledger entry in one transaction.
// The conditional predicates make concurrent validations race to at
// most one success.
func (s *PointsService) ValidateRedeemCode(code, adminID string) (*RedeemResult, error) {
	var redeemCode models.RedeemCode
	err := s.db.Where("code = ? AND status = ?", code, models.RedeemStatusPending).First(&redeemCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRedeemCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if time.Now().After(redeemCode.ExpiresAt) {
		if redeemCode.Status.CanTransition(models.RedeemStatusExpired) {
			res := s.db.Model(&models.RedeemCode{}).
				Where("id = ? AND status = ?", redeemCode.ID, models.RedeemStatusPending).
				Update("status", models.RedeemStatusExpired)
			if res.Error != nil {
				log.Printf("Warning: failed to expire redeem code %s: %v", redeemCode.ID, res.Error)
			}
		}
		// The code is past its window either way; the next lookup retries
		// the status write if this one failed.
		return nil, ErrRedeemCodeExpired
	}

	var user models.User
	err = s.db.Where("id = ?", redeemCode.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Puntos < redeemCode.Points {
		return nil, ErrInsufficientPoints
	}

	var remaining int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Balance may have changed since the read above; the predicate
		// re-checks it at write time.
		res := tx.Model(&models.User{}).
			Where("id = ? AND puntos >= ?", redeemCode.UserID, redeemCode.Points).
			Update("puntos", gorm.Expr("puntos - ?", redeemCode.Points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientPoints
		}

		res = tx.Model(&models.RedeemCode{}).
			Where("id = ? AND status = ?", redeemCode.ID, models.RedeemStatusPending).
			Updates(map[string]interface{}{
				"status":  models.RedeemStatusUsed,
				"used_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRedeemCodeNotFound
		}

		transaction := models.PointsTransaction{
			UserID:      redeemCode.UserID,
			Type:        models.TransactionRedeem,
			Amount:      redeemCode.Points,
			Description: fmt.Sprintf("Canje de %d puntos", redeemCode.Points),
			ProcessedBy: adminID,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		var updated models.User
		if err := tx.Where("id = ?", redeemCode.UserID).First(&updated).Error; err != nil {
			return err
		}
		remaining = updated.Puntos
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notifyErr := s.notifications.Create(
		redeemCode.UserID,
		models.NotificationPoints,
		"Canje procesado",
		fmt.Sprintf("Canjeaste %d puntos. Te quedan %d.", redeemCode.Points, remaining),
		models.JSONB{"puntos": redeemCode.Points},
	); notifyErr != nil {
		log.Printf("Warning: failed to create redeem notification for user %s: %v", redeemCode.UserID, notifyErr)
	}

	return &RedeemResult{
		UserName:        user.Nombre,
		PointsRedeemed:  redeemCode.Points,
		PointsRemaining: remaining,
	}, nil
}
