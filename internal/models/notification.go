package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification categories.
const (
	NotificationEvent  = "evento"
	NotificationTicket = "ticket"
	NotificationPoints = "puntos"
)

// Notification is a best-effort in-app message, polled by clients.
type Notification struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"usuarioId"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Tipo      string    `gorm:"size:20;not null" json:"tipo"`
	Titulo    string    `gorm:"size:200;not null" json:"titulo"`
	Mensaje   string    `gorm:"size:1000;not null" json:"mensaje"`
	Leida     bool      `gorm:"not null;default:false;index" json:"leida"`
	Metadata  JSONB     `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"fechaCreacion"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
