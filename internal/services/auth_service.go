package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"lasexta-backend/internal/auth"
	"lasexta-backend/internal/email"
	"lasexta-backend/internal/models"
	"lasexta-backend/internal/utils"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrResetCodeInvalid   = errors.New("reset code invalid or expired")
)

// resetCodeTTL is how long a password recovery code stays valid.
const resetCodeTTL = 15 * time.Minute

// AuthService handles registration, login and password recovery
type AuthService struct {
	db   *gorm.DB
	mail email.Sender
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB, mail email.Sender) *AuthService {
	return &AuthService{db: db, mail: mail}
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Register creates a client account. Emails are stored normalized and
// must be unique across both roles; the unique index is the arbiter, so
// two concurrent registrations of the same address cannot both win.
func (s *AuthService) Register(nombre, rawEmail, password string) (*models.User, error) {
	normalized := NormalizeEmail(rawEmail)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Nombre:       strings.TrimSpace(nombre),
		Email:        normalized,
		PasswordHash: hash,
		Rol:          models.RoleClient,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("New user registered: %s (ID: %s)", user.Email, user.ID)
	return &user, nil
}

// Login authenticates against the unified login entry point: client
// credentials are tried first, and on a miss the same credentials are
// retried as an admin. The returned user always carries exactly one
// definitive role.
func (s *AuthService) Login(rawEmail, password string) (*models.User, error) {
	user, err := s.loginWithRole(rawEmail, password, models.RoleClient)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		return nil, err
	}
	return s.loginWithRole(rawEmail, password, models.RoleAdmin)
}

// AdminLogin authenticates an admin only
func (s *AuthService) AdminLogin(rawEmail, password string) (*models.User, error) {
	return s.loginWithRole(rawEmail, password, models.RoleAdmin)
}

func (s *AuthService) loginWithRole(rawEmail, password, role string) (*models.User, error) {
	normalized := NormalizeEmail(rawEmail)

	var user models.User
	err := s.db.Where("email = ? AND rol = ?", normalized, role).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.PasswordHash == "" || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID retrieves a user by id
func (s *AuthService) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// GetAdminByID retrieves an admin user by id
func (s *AuthService) GetAdminByID(userID string) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ? AND rol = ?", userID, models.RoleAdmin).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// ClientSummary is the admin user listing row
type ClientSummary struct {
	models.User
	TicketsActivos int `json:"ticketsActivos"`
}

// ListClients returns every non-admin user with its count of valid
// tickets, sorted by name.
func (s *AuthService) ListClients() ([]ClientSummary, error) {
	var users []models.User
	if err := s.db.Where("rol <> ?", models.RoleAdmin).Order("nombre ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	type countRow struct {
		UserID string
		Count  int
	}
	var counts []countRow
	err := s.db.Model(&models.Ticket{}).
		Select("user_id, COUNT(*) AS count").
		Where("status = ?", models.TicketStatusValid).
		Group("user_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	activeByUser := make(map[string]int, len(counts))
	for _, row := range counts {
		activeByUser[row.UserID] = row.Count
	}

	summaries := make([]ClientSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, ClientSummary{User: u, TicketsActivos: activeByUser[u.ID]})
	}
	return summaries, nil
}

// RequestPasswordReset generates and emails a recovery code. A missing
// account is not an error: the caller must not learn whether the email
// exists.
func (s *AuthService) RequestPasswordReset(rawEmail string) error {
	normalized := NormalizeEmail(rawEmail)

	var user models.User
	err := s.db.Where("email = ?", normalized).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return err
	}

	reset := models.PasswordResetCode{
		Email:     normalized,
		Code:      code,
		ExpiresAt: time.Now().Add(resetCodeTTL),
	}
	if err := s.db.Create(&reset).Error; err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	if s.mail == nil {
		return fmt.Errorf("email sender not configured")
	}
	if err := s.mail.SendPasswordResetCode(normalized, code, reset.ExpiresAt); err != nil {
		return err
	}
	return nil
}

// VerifyResetCode reports whether an unused, unexpired code matches.
func (s *AuthService) VerifyResetCode(rawEmail, code string) (bool, error) {
	_, err := s.findActiveResetCode(rawEmail, code)
	if errors.Is(err, ErrResetCodeInvalid) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ResetPassword consumes a recovery code and replaces the password.
// All other unused codes for the same email are purged.
func (s *AuthService) ResetPassword(rawEmail, code, newPassword string) error {
	normalized := NormalizeEmail(rawEmail)

	reset, err := s.findActiveResetCode(normalized, code)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("email = ?", normalized).Update("password_hash", hash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		if err := tx.Model(&models.PasswordResetCode{}).Where("id = ?", reset.ID).Update("used", true).Error; err != nil {
			return err
		}

		// Purge every other unused code issued for this email.
		return tx.Where("email = ? AND used = ? AND id <> ?", normalized, false, reset.ID).
			Delete(&models.PasswordResetCode{}).Error
	})
}

func (s *AuthService) findActiveResetCode(rawEmail, code string) (*models.PasswordResetCode, error) {
	normalized := NormalizeEmail(rawEmail)

	var reset models.PasswordResetCode
	err := s.db.Where("email = ? AND code = ? AND used = ?", normalized, strings.TrimSpace(code), false).
		Order("created_at DESC").
		First(&reset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResetCodeInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if time.Now().After(reset.ExpiresAt) {
		return nil, ErrResetCodeInvalid
	}
	return &reset, nil
}
