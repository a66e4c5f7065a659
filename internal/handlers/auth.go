package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lasexta-backend/internal/auth"
	"lasexta-backend/internal/services"
)

// AuthHandler handles registration, login and password recovery
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a client account
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Nombre   string `json:"nombre" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Datos inválidos. Email, contraseña y nombre son requeridos."})
		return
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Revisa que los campos sean válidos y la contraseña tenga al menos 6 caracteres."})
		return
	}

	user, err := h.authService.Register(req.Nombre, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "Ya existe un usuario con ese email."})
			return
		}
		log.Printf("register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		log.Printf("token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login authenticates through the unified entry point (client first,
// admin as fallback)
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Credenciales inválidas."})
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Credenciales incorrectas."})
			return
		}
		log.Printf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		log.Printf("token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout handles user logout (stateless JWT — client-side only)
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada."})
}

// Me returns the authenticated client's profile
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Autenticación requerida."})
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Usuario no encontrado."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ForgotPassword emails a recovery code. Responds 200 whether or not
// the email exists, to avoid account probing.
// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email requerido."})
		return
	}

	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		log.Printf("password reset request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo enviar el código. Intenta nuevamente."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Si el email existe, enviamos un código de recuperación."})
}

// VerifyResetCode checks a recovery code without consuming it
// POST /api/auth/verify-reset-code
func (h *AuthHandler) VerifyResetCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email y código son requeridos."})
		return
	}

	valid, err := h.authService.VerifyResetCode(req.Email, req.Code)
	if err != nil {
		log.Printf("reset code verification failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// ResetPassword consumes a recovery code and replaces the password
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required"`
		Code        string `json:"code" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Datos inválidos."})
		return
	}

	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "La contraseña debe tener al menos 6 caracteres."})
		return
	}

	if err := h.authService.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrResetCodeInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Código inválido o expirado."})
			return
		}
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Usuario no encontrado."})
			return
		}
		log.Printf("password reset failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ocurrió un error inesperado. Intenta nuevamente más tarde."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contraseña actualizada correctamente."})
}
