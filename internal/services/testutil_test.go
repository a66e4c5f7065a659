package services

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lasexta-backend/internal/database"
	"lasexta-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// One shared in-memory database per test; the name keeps tests from
	// seeing each other's data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func createClient(t *testing.T, db *gorm.DB, nombre, email string, puntos int) *models.User {
	user := models.User{
		Nombre:       nombre,
		Email:        email,
		PasswordHash: "x",
		Rol:          models.RoleClient,
		Puntos:       puntos,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func createAdmin(t *testing.T, db *gorm.DB, nombre, email, passwordHash string) *models.User {
	admin := models.User{
		Nombre:       nombre,
		Email:        email,
		PasswordHash: passwordHash,
		Rol:          models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	return &admin
}

// fakeSender records outgoing email instead of delivering it.
type fakeSender struct {
	ticketsSent int
	resetsSent  int
	lastTo      string
	lastCode    string
	failWith    error
}

func (f *fakeSender) SendTicket(to, userName, ticketCode string, issuedAt time.Time, expiresAt *time.Time) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.ticketsSent++
	f.lastTo = to
	f.lastCode = ticketCode
	return nil
}

func (f *fakeSender) SendPasswordResetCode(to, code string, expiresAt time.Time) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.resetsSent++
	f.lastTo = to
	f.lastCode = code
	return nil
}
