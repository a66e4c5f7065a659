package database

import (
	"fmt"
	"log"

	"lasexta-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
		// Lets callers match unique-index violations with
		// gorm.ErrDuplicatedKey instead of driver-specific errors.
		TranslateError: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// GetDB returns the shared database handle
func GetDB() *gorm.DB {
	return DB
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate runs automatic migrations on the given handle. Split out so
// tests can migrate an injected SQLite database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Ticket{},
		&models.PointsTransaction{},
		&models.RedeemCode{},
		&models.PasswordResetCode{},
		&models.Event{},
		&models.Benefit{},
		&models.Reward{},
		&models.Notification{},
	)
}
