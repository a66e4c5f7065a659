package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Benefit is a sponsor perk shown to clients while it is active.
type Benefit struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"id"`
	Titulo              string    `gorm:"size:200;not null" json:"titulo"`
	DescripcionCorta    string    `gorm:"size:500;not null" json:"descripcionCorta"`
	DescripcionCompleta string    `gorm:"size:4000;not null" json:"descripcionCompleta"`
	LogoURL             string    `gorm:"size:500;not null" json:"logoUrl"`
	NombreAuspiciante   string    `gorm:"size:200;not null" json:"nombreAuspiciante"`
	Activo              bool      `gorm:"not null;default:true;index" json:"activo"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (Benefit) TableName() string {
	return "benefits"
}

func (b *Benefit) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
