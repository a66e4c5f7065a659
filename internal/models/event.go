package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Defaults applied when the admin leaves the fields empty, same values
// the web client expects.
const (
	DefaultEventLocation   = "LA SEXTA"
	DefaultEventBackground = "/card1.jpeg"
)

// Event is a catalog entry for a venue date. Fecha/hora/dia are kept as
// the display strings the clients send, not parsed timestamps.
type Event struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Titulo      string    `gorm:"size:200;not null" json:"titulo"`
	Fecha       string    `gorm:"size:40;not null;index" json:"fecha"`
	Hora        string    `gorm:"size:20;not null" json:"hora"`
	Dia         string    `gorm:"size:20;not null" json:"dia"`
	Ubicacion   string    `gorm:"size:200;not null" json:"ubicacion"`
	Descripcion *string   `gorm:"size:2000" json:"descripcion"`
	ImagenFondo *string   `gorm:"size:500" json:"imagenFondo"`
	LinkCompra  *string   `gorm:"size:500" json:"linkCompra"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EventResponse is the wire shape pushed to clients, both on the REST
// list and on the SSE stream.
type EventResponse struct {
	ID          string  `json:"id"`
	Titulo      string  `json:"titulo"`
	Fecha       string  `json:"fecha"`
	Hora        string  `json:"hora"`
	Dia         string  `json:"dia"`
	Ubicacion   string  `json:"ubicacion"`
	Descripcion *string `json:"descripcion"`
	ImagenFondo string  `json:"imagenFondo"`
	LinkCompra  *string `json:"linkCompra"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToResponse fills in the display defaults.
func (e *Event) ToResponse() EventResponse {
	background := DefaultEventBackground
	if e.ImagenFondo != nil && *e.ImagenFondo != "" {
		background = *e.ImagenFondo
	}
	return EventResponse{
		ID:          e.ID,
		Titulo:      e.Titulo,
		Fecha:       e.Fecha,
		Hora:        e.Hora,
		Dia:         e.Dia,
		Ubicacion:   e.Ubicacion,
		Descripcion: e.Descripcion,
		ImagenFondo: background,
		LinkCompra:  e.LinkCompra,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
