package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. The web and mobile clients were built against the Spanish
// wire values, so they are kept as-is.
const (
	RoleAdmin  = "admin"
	RoleClient = "cliente"
)

// User represents a registered account (client or admin)
type User struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Nombre         string    `gorm:"size:120;not null" json:"nombre"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"size:255" json:"-"`
	Rol            string    `gorm:"size:20;not null;default:cliente;index" json:"rol"`
	Puntos         int       `gorm:"not null;default:0" json:"puntos"`
	SocialProvider *string   `gorm:"size:40" json:"-"`
	SocialID       *string   `gorm:"size:255" json:"-"`
	FechaRegistro  time.Time `gorm:"autoCreateTime" json:"fechaRegistro"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
