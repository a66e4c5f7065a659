package main

import (
	"errors"
	"log"
	"os"

	"gorm.io/gorm"

	"lasexta-backend/internal/auth"
	"lasexta-backend/internal/config"
	"lasexta-backend/internal/database"
	"lasexta-backend/internal/models"
)

// Bootstraps the first admin account from ADMIN_EMAIL / ADMIN_PASSWORD /
// ADMIN_NAME. Idempotent: an existing account with that email is left
// untouched.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminName := os.Getenv("ADMIN_NAME")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if adminName == "" {
		adminName = "Administrador"
	}

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	var existing models.User
	err = db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		log.Printf("Account %s already exists (role %s), nothing to do", existing.Email, existing.Rol)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check for existing admin: %v", err)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.User{
		Nombre:       adminName,
		Email:        adminEmail,
		PasswordHash: hash,
		Rol:          models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("✅ Admin %s created (ID: %s)", admin.Email, admin.ID)
}
