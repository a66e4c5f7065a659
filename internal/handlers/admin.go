package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lasexta-backend/internal/auth"
	"lasexta-backend/internal/services"
)

// AdminHandler handles admin session endpoints and the user directory
type AdminHandler struct {
	authService *services.AuthService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(authService *services.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// Login authenticates an admin only
// POST /api/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Credenciales inválidas."})
		return
	}

	admin, err := h.authService.AdminLogin(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Credenciales incorrectas."})
			return
		}
		log.Printf("admin login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	token, err := auth.GenerateToken(admin)
	if err != nil {
		log.Printf("token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"admin": admin, "token": token})
}

// Me returns the authenticated admin's profile
// GET /api/admin/me
func (h *AdminHandler) Me(c *gin.Context) {
	adminID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Autenticación requerida."})
		return
	}

	admin, err := h.authService.GetAdminByID(adminID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Administrador no encontrado."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

// Users returns every client with its count of valid tickets
// GET /api/admin/users
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.authService.ListClients()
	if err != nil {
		log.Printf("failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}
