package services

import (
	"errors"
	"testing"
	"time"

	"lasexta-backend/internal/models"
	"lasexta-backend/internal/stream"
)

func strPtr(s string) *string { return &s }

func TestCreateEventRequiresCoreFields(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(db, stream.NewHub(time.Hour))

	_, err := service.Create(EventInput{
		Titulo: strPtr("Noche de rock"),
		Fecha:  strPtr("2026-09-12"),
		// hora and dia missing
	})
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}

func TestCreateEventAppliesDefaults(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(db, stream.NewHub(time.Hour))

	event, err := service.Create(EventInput{
		Titulo: strPtr("Noche de rock"),
		Fecha:  strPtr("2026-09-12"),
		Hora:   strPtr("23:00"),
		Dia:    strPtr("Sábado"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if event.Ubicacion != models.DefaultEventLocation {
		t.Errorf("expected default location, got %q", event.Ubicacion)
	}
	if event.ImagenFondo != models.DefaultEventBackground {
		t.Errorf("expected default background, got %q", event.ImagenFondo)
	}
}

func TestUpdateEventIsPartial(t *testing.T) {
	db := setupTestDB(t)
	hub := stream.NewHub(time.Hour)
	service := NewEventService(db, hub)

	event, err := service.Create(EventInput{
		Titulo:    strPtr("Noche de rock"),
		Fecha:     strPtr("2026-09-12"),
		Hora:      strPtr("23:00"),
		Dia:       strPtr("Sábado"),
		Ubicacion: strPtr("Patio central"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	ch := hub.Register("watcher")
	defer hub.Unregister("watcher")

	updated, err := service.Update(event.ID, EventInput{Hora: strPtr("23:30")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Hora != "23:30" {
		t.Errorf("expected updated hora, got %q", updated.Hora)
	}
	if updated.Titulo != "Noche de rock" || updated.Ubicacion != "Patio central" {
		t.Errorf("expected untouched fields to survive, got %+v", updated)
	}

	select {
	case <-ch:
		// updated frame delivered
	case <-time.After(time.Second):
		t.Error("expected the update to be broadcast")
	}
}

func TestDeleteEventNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(db, stream.NewHub(time.Hour))

	if err := service.Delete("00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestListOrdersByDateThenTime(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(db, stream.NewHub(time.Hour))

	for _, e := range []struct{ titulo, fecha, hora string }{
		{"Tarde", "2026-09-19", "23:00"},
		{"Temprano", "2026-09-12", "21:00"},
		{"Medio", "2026-09-12", "23:00"},
	} {
		_, err := service.Create(EventInput{
			Titulo: strPtr(e.titulo),
			Fecha:  strPtr(e.fecha),
			Hora:   strPtr(e.hora),
			Dia:    strPtr("Sábado"),
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	events, err := service.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Titulo != "Temprano" || events[1].Titulo != "Medio" || events[2].Titulo != "Tarde" {
		t.Errorf("unexpected order: %s, %s, %s", events[0].Titulo, events[1].Titulo, events[2].Titulo)
	}
}
