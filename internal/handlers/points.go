package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lasexta-backend/internal/auth"
	"lasexta-backend/internal/services"
)

// PointsHandler exposes the client and admin loyalty-points endpoints
type PointsHandler struct {
	pointsService *services.PointsService
}

// NewPointsHandler creates a new PointsHandler
func NewPointsHandler(pointsService *services.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

// Me returns the caller's point balance
// GET /api/points/me
func (h *PointsHandler) Me(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Autenticación requerida."})
		return
	}

	balance, err := h.pointsService.Balance(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Usuario no encontrado."})
			return
		}
		log.Printf("failed to read balance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"puntos": balance})
}

// Movements returns the caller's latest ledger entries
// GET /api/points/movements
func (h *PointsHandler) Movements(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Autenticación requerida."})
		return
	}

	movements, err := h.pointsService.Movements(userID)
	if err != nil {
		log.Printf("failed to list movements: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": movements})
}

// GenerateRedeemCode creates a short-lived pending redemption code
// POST /api/points/generate-redeem-code
func (h *PointsHandler) GenerateRedeemCode(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Autenticación requerida."})
		return
	}

	var req struct {
		PuntosACanjear int `json:"puntosACanjear" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "puntosACanjear es requerido."})
		return
	}

	redeemCode, err := h.pointsService.RequestRedeemCode(userID, req.PuntosACanjear)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBelowMinimumRedeem):
			c.JSON(http.StatusBadRequest, gin.H{"message": "El mínimo para canjear es de 25 puntos."})
		case errors.Is(err, services.ErrInsufficientPoints):
			c.JSON(http.StatusBadRequest, gin.H{"message": "No tienes puntos suficientes."})
		case errors.Is(err, services.ErrRedeemCodePending):
			c.JSON(http.StatusConflict, gin.H{"message": "Ya tienes un código de canje pendiente."})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Usuario no encontrado."})
		default:
			log.Printf("failed to generate redeem code: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo generar el código de canje."})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"codigo":          redeemCode.Code,
		"puntosACanjear":  redeemCode.Points,
		"fechaExpiracion": redeemCode.ExpiresAt,
	})
}

// Add credits the daily point to a client
// POST /api/admin/points/add
func (h *PointsHandler) Add(c *gin.Context) {
	var req struct {
		UsuarioID string `json:"usuarioId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "usuarioId es requerido."})
		return
	}

	adminID, _ := auth.GetUserID(c)
	newBalance, err := h.pointsService.AddPoint(req.UsuarioID, adminID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyAddedToday):
			c.JSON(http.StatusConflict, gin.H{"message": "El usuario ya recibió su punto de hoy."})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Usuario no encontrado."})
		default:
			log.Printf("failed to add point: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo agregar el punto."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Punto agregado correctamente.", "nuevosPuntos": newBalance})
}

// ValidateRedeem processes a pending redemption code
// POST /api/admin/points/validate-redeem
func (h *PointsHandler) ValidateRedeem(c *gin.Context) {
	var req struct {
		Codigo string `json:"codigo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "codigo es requerido."})
		return
	}

	adminID, _ := auth.GetUserID(c)
	result, err := h.pointsService.ValidateRedeemCode(req.Codigo, adminID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRedeemCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Código no encontrado o ya utilizado."})
		case errors.Is(err, services.ErrRedeemCodeExpired):
			c.JSON(http.StatusGone, gin.H{"message": "El código de canje expiró."})
		case errors.Is(err, services.ErrInsufficientPoints):
			c.JSON(http.StatusConflict, gin.H{"message": "El usuario no tiene puntos suficientes."})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Usuario no encontrado."})
		default:
			log.Printf("failed to validate redeem code: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo procesar el canje."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Canje procesado correctamente.",
		"usuario":         result.UserName,
		"puntosCanjeados": result.PointsRedeemed,
		"puntosRestantes": result.PointsRemaining,
	})
}

// CheckEligibility reports whether a user can still receive today's point
// GET /api/admin/points/check-eligibility/:usuarioId
func (h *PointsHandler) CheckEligibility(c *gin.Context) {
	canAdd, err := h.pointsService.CanAddPointToday(c.Param("usuarioId"))
	if err != nil {
		log.Printf("failed to check eligibility: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"canAddToday": canAdd})
}
