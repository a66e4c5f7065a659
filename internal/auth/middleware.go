package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lasexta-backend/internal/models"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "user_email"
	ctxRole   = "user_role"
)

// Failure responses are deliberately generic: a malformed header, a bad
// signature, an expired token and a wrong role must not be
// distinguishable from the outside.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Autenticación requerida."})
			return
		}

		claims, err := ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token inválido o expirado."})
			return
		}

		if claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Permisos insuficientes."})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireUser protects client routes
func RequireUser() gin.HandlerFunc {
	return requireRole(models.RoleClient)
}

// RequireAdmin protects admin routes
func RequireAdmin() gin.HandlerFunc {
	return requireRole(models.RoleAdmin)
}

// GetUserID retrieves the authenticated user id from the context
func GetUserID(c *gin.Context) (string, bool) {
	raw, exists := c.Get(ctxUserID)
	if !exists {
		return "", false
	}
	id, ok := raw.(string)
	return id, ok && id != ""
}
