package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reward is a points-funded prize from the catalog.
type Reward struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	Nombre           string    `gorm:"size:200;not null" json:"nombre"`
	PuntosRequeridos int       `gorm:"not null;index" json:"puntosRequeridos"`
	Descripcion      string    `gorm:"size:2000;not null" json:"descripcion"`
	ImagenURL        *string   `gorm:"size:500" json:"imagenUrl"`
	Habilitado       bool      `gorm:"not null;default:true;index" json:"habilitado"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (Reward) TableName() string {
	return "rewards"
}

func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
