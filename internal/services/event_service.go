package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"lasexta-backend/internal/models"
	"lasexta-backend/internal/stream"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrMissingField  = errors.New("required field missing")
)

// EventInput carries a create or partial-update request. On update, nil
// means "leave the field alone".
type EventInput struct {
	Titulo      *string `json:"titulo"`
	Fecha       *string `json:"fecha"`
	Hora        *string `json:"hora"`
	Dia         *string `json:"dia"`
	Ubicacion   *string `json:"ubicacion"`
	Descripcion *string `json:"descripcion"`
	ImagenFondo *string `json:"imagenFondo"`
	LinkCompra  *string `json:"linkCompra"`
}

// EventService manages the event catalog and fans every mutation out to
// the live stream.
type EventService struct {
	db  *gorm.DB
	hub *stream.Hub
}

// NewEventService creates a new EventService
func NewEventService(db *gorm.DB, hub *stream.Hub) *EventService {
	return &EventService{db: db, hub: hub}
}

// List returns all events in display order.
func (s *EventService) List() ([]models.EventResponse, error) {
	var events []models.Event
	err := s.db.Order("fecha ASC, hora ASC, created_at DESC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	responses := make([]models.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}
	return responses, nil
}

// Create stores a new event and broadcasts it.
func (s *EventService) Create(input EventInput) (*models.EventResponse, error) {
	titulo, err := requiredField(input.Titulo, "titulo")
	if err != nil {
		return nil, err
	}
	fecha, err := requiredField(input.Fecha, "fecha")
	if err != nil {
		return nil, err
	}
	hora, err := requiredField(input.Hora, "hora")
	if err != nil {
		return nil, err
	}
	dia, err := requiredField(input.Dia, "dia")
	if err != nil {
		return nil, err
	}

	event := models.Event{
		Titulo:      titulo,
		Fecha:       fecha,
		Hora:        hora,
		Dia:         dia,
		Ubicacion:   optionalWithDefault(input.Ubicacion, models.DefaultEventLocation),
		Descripcion: trimmedOrNil(input.Descripcion),
		LinkCompra:  trimmedOrNil(input.LinkCompra),
	}
	background := optionalWithDefault(input.ImagenFondo, models.DefaultEventBackground)
	event.ImagenFondo = &background

	if err := s.db.Create(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	response := event.ToResponse()
	s.hub.Broadcast(stream.Payload{Type: "created", Event: response})
	return &response, nil
}

// Update applies a partial update and broadcasts the result.
func (s *EventService) Update(eventID string, input EventInput) (*models.EventResponse, error) {
	var event models.Event
	err := s.db.Where("id = ?", eventID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if input.Titulo != nil {
		titulo, err := requiredField(input.Titulo, "titulo")
		if err != nil {
			return nil, err
		}
		event.Titulo = titulo
	}
	if input.Fecha != nil {
		fecha, err := requiredField(input.Fecha, "fecha")
		if err != nil {
			return nil, err
		}
		event.Fecha = fecha
	}
	if input.Hora != nil {
		hora, err := requiredField(input.Hora, "hora")
		if err != nil {
			return nil, err
		}
		event.Hora = hora
	}
	if input.Dia != nil {
		dia, err := requiredField(input.Dia, "dia")
		if err != nil {
			return nil, err
		}
		event.Dia = dia
	}
	if input.Ubicacion != nil {
		event.Ubicacion = optionalWithDefault(input.Ubicacion, models.DefaultEventLocation)
	}
	if input.Descripcion != nil {
		event.Descripcion = trimmedOrNil(input.Descripcion)
	}
	if input.ImagenFondo != nil {
		background := optionalWithDefault(input.ImagenFondo, models.DefaultEventBackground)
		event.ImagenFondo = &background
	}
	if input.LinkCompra != nil {
		event.LinkCompra = trimmedOrNil(input.LinkCompra)
	}

	if err := s.db.Save(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	response := event.ToResponse()
	s.hub.Broadcast(stream.Payload{Type: "updated", Event: response})
	return &response, nil
}

// Delete removes an event and broadcasts the deletion.
func (s *EventService) Delete(eventID string) error {
	res := s.db.Where("id = ?", eventID).Delete(&models.Event{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEventNotFound
	}

	s.hub.Broadcast(stream.Payload{Type: "deleted", EventID: eventID})
	return nil
}

// Snapshot returns the frame a freshly connected stream client gets.
func (s *EventService) Snapshot() (stream.Payload, error) {
	events, err := s.List()
	if err != nil {
		return stream.Payload{}, err
	}
	return stream.Payload{Type: "snapshot", Events: events}, nil
}

func requiredField(value *string, name string) (string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return strings.TrimSpace(*value), nil
}

func optionalWithDefault(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return strings.TrimSpace(*value)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
