package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lasexta-backend/internal/services"
	"lasexta-backend/internal/stream"
)

// EventHandler exposes the public event catalog, its live stream and the
// admin CRUD
type EventHandler struct {
	eventService *services.EventService
	hub          *stream.Hub
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService *services.EventService, hub *stream.Hub) *EventHandler {
	return &EventHandler{eventService: eventService, hub: hub}
}

// List returns the full catalog in display order
// GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.List()
	if err != nil {
		log.Printf("failed to list events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Stream is the SSE endpoint. Every connected client receives a full
// snapshot first, then incremental created/updated/deleted frames plus
// periodic pings, until it disconnects.
// GET /api/events/stream
func (h *EventHandler) Stream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Streaming no soportado."})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	clientID := uuid.NewString()
	frames := h.hub.Register(clientID)
	defer h.hub.Unregister(clientID)

	// The snapshot goes out before anything queued on the channel is
	// read, so the client always starts from a full catalog.
	snapshot, err := h.eventService.Snapshot()
	if err != nil {
		log.Printf("stream: failed to build snapshot: %v", err)
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("stream: failed to marshal snapshot: %v", err)
		return
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
		return
	}
	flusher.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case data, open := <-frames:
			if !open {
				return
			}
			if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// Create stores a new event and broadcasts it to the stream
// POST /api/admin/events
func (h *EventHandler) Create(c *gin.Context) {
	var input services.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Datos inválidos."})
		return
	}

	event, err := h.eventService.Create(input)
	if err != nil {
		if errors.Is(err, services.ErrMissingField) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Título, fecha, hora y día son requeridos."})
			return
		}
		log.Printf("failed to create event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo crear el evento."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Evento creado correctamente.", "event": event})
}

// Update applies a partial update and broadcasts it
// PUT /api/admin/events/:eventId
func (h *EventHandler) Update(c *gin.Context) {
	var input services.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Datos inválidos."})
		return
	}

	event, err := h.eventService.Update(c.Param("eventId"), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Evento no encontrado."})
		case errors.Is(err, services.ErrMissingField):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Los campos enviados no pueden quedar vacíos."})
		default:
			log.Printf("failed to update event: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo actualizar el evento."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Evento actualizado correctamente.", "event": event})
}

// Delete removes an event and broadcasts the deletion
// DELETE /api/admin/events/:eventId
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.eventService.Delete(c.Param("eventId")); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Evento no encontrado."})
			return
		}
		log.Printf("failed to delete event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo eliminar el evento."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Evento eliminado correctamente."})
}
