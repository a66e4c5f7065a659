package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lasexta-backend/internal/auth"
	"lasexta-backend/internal/models"
	"lasexta-backend/internal/services"
)

// TicketHandler exposes the client and admin ticket endpoints
type TicketHandler struct {
	ticketService *services.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// requireSelf rejects a client reading another user's tickets.
func requireSelf(c *gin.Context) (string, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Autenticación requerida."})
		return "", false
	}
	if c.Param("userId") != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Permisos insuficientes."})
		return "", false
	}
	return userID, true
}

// Active returns the caller's still-valid tickets
// GET /api/tickets/users/:userId/active
func (h *TicketHandler) Active(c *gin.Context) {
	userID, ok := requireSelf(c)
	if !ok {
		return
	}

	tickets, err := h.ticketService.ActiveForUser(userID)
	if err != nil {
		log.Printf("failed to list active tickets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// History returns the caller's used and expired tickets
// GET /api/tickets/users/:userId/history
func (h *TicketHandler) History(c *gin.Context) {
	userID, ok := requireSelf(c)
	if !ok {
		return
	}

	tickets, err := h.ticketService.HistoryForUser(userID)
	if err != nil {
		log.Printf("failed to list ticket history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// ticketWithOwner is the admin listing row, owner flattened in.
func ticketWithOwner(t models.Ticket) gin.H {
	row := gin.H{
		"id":               t.ID,
		"codigoQR":         t.Code,
		"estado":           t.Status,
		"fechaCreacion":    t.CreatedAt.Format(time.RFC3339),
		"fechaVencimiento": t.ExpiresAt,
		"fechaUso":         t.UsedAt,
		"emitidoPor":       t.IssuedBy,
	}
	if t.User != nil {
		row["usuario"] = gin.H{"nombre": t.User.Nombre, "email": t.User.Email}
	}
	return row
}

// All returns every ticket, optionally filtered by estado
// GET /api/admin/tickets/all
func (h *TicketHandler) All(c *gin.Context) {
	tickets, err := h.ticketService.AllTickets(c.Query("estado"))
	if err != nil {
		log.Printf("failed to list tickets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	rows := make([]gin.H, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, ticketWithOwner(t))
	}
	c.JSON(http.StatusOK, gin.H{"tickets": rows})
}

// ForUser returns one user's retained tickets
// GET /api/admin/tickets/user/:userId
func (h *TicketHandler) ForUser(c *gin.Context) {
	tickets, err := h.ticketService.TicketsForUser(c.Param("userId"))
	if err != nil {
		log.Printf("failed to list user tickets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// Generate issues a fresh ticket for a user
// POST /api/admin/tickets/generate
func (h *TicketHandler) Generate(c *gin.Context) {
	var req struct {
		UserID      string `json:"userId" binding:"required"`
		DiasValidez int    `json:"diasValidez"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "userId es requerido."})
		return
	}
	if req.DiasValidez < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "diasValidez debe ser mayor a cero."})
		return
	}

	adminID, _ := auth.GetUserID(c)
	ticket, err := h.ticketService.Issue(req.UserID, req.DiasValidez, adminID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Usuario no encontrado."})
			return
		}
		log.Printf("failed to issue ticket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo generar el ticket."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Ticket generado correctamente.", "ticket": ticket})
}

// Send emails an existing ticket to its owner
// POST /api/admin/tickets/send/:userId
func (h *TicketHandler) Send(c *gin.Context) {
	var req struct {
		TicketID string `json:"ticketId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ticketId es requerido."})
		return
	}

	err := h.ticketService.Send(c.Param("userId"), req.TicketID)
	if err != nil {
		if errors.Is(err, services.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Ticket no encontrado."})
			return
		}
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Usuario no encontrado."})
			return
		}
		log.Printf("failed to send ticket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo enviar el ticket por email."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket enviado por email."})
}

// Use marks a ticket as consumed, keyed by id
// PUT /api/admin/tickets/use/:ticketId
func (h *TicketHandler) Use(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)
	ticket, err := h.ticketService.MarkUsed(c.Param("ticketId"), adminID)
	if err != nil {
		if errors.Is(err, services.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Ticket no válido o ya utilizado."})
			return
		}
		log.Printf("failed to mark ticket used: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket marcado como usado.", "ticket": ticket})
}

// Validate marks a ticket as consumed, keyed by its QR code
// POST /api/admin/tickets/validate/:codigoQR
func (h *TicketHandler) Validate(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)
	ticket, err := h.ticketService.ValidateByCode(c.Param("codigoQR"), adminID)
	if err != nil {
		if errors.Is(err, services.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Ticket no válido o ya utilizado."})
			return
		}
		log.Printf("failed to validate ticket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket validado correctamente.", "ticket": ticket})
}
