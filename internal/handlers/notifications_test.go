package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lasexta-backend/internal/auth"
	"lasexta-backend/internal/models"
	"lasexta-backend/internal/services"
)

func setupNotificationRouter(t *testing.T) (*gorm.DB, *services.NotificationService, *gin.Engine) {
	t.Helper()

	auth.InitJWT("test-secret")
	db := openTestDB(t)

	notificationService := services.NewNotificationService(db)
	handler := NewNotificationHandler(notificationService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	client := router.Group("/api")
	client.Use(auth.RequireUser())
	{
		client.GET("/notifications/me", handler.List)
		client.GET("/notifications/me/unread-count", handler.UnreadCount)
		client.PATCH("/notifications/me/mark-read", handler.MarkRead)
	}
	return db, notificationService, router
}

func TestNotificationRoutes(t *testing.T) {
	db, notificationService, router := setupNotificationRouter(t)

	user := createTestClient(t, db, "Ana", "ana@test.com")
	token, err := auth.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	err = notificationService.Create(user.ID, models.NotificationPoints, "¡Sumaste un punto!", "Tu saldo actual es de 1 puntos.", nil)
	if err != nil {
		t.Fatalf("failed to create notification: %v", err)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/notifications/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from list, got %d", rec.Code)
	}

	var listResp struct {
		Notifications []models.Notification `json:"notifications"`
		NoLeidas      int                   `json:"noLeidas"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("invalid list response: %v", err)
	}
	if len(listResp.Notifications) != 1 || listResp.NoLeidas != 1 {
		t.Fatalf("expected 1 unread notification, got %s", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/notifications/me/unread-count", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from unread-count, got %d", rec.Code)
	}

	// Empty body marks everything read.
	rec = doJSON(t, router, http.MethodPatch, "/api/notifications/me/mark-read", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from mark-read, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/notifications/me/unread-count", token, "")
	var countResp struct {
		NoLeidas int `json:"noLeidas"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &countResp); err != nil {
		t.Fatalf("invalid unread-count response: %v", err)
	}
	if countResp.NoLeidas != 0 {
		t.Errorf("expected 0 unread after mark-read, got %d", countResp.NoLeidas)
	}
}

func TestNotificationRoutesRequireAuth(t *testing.T) {
	_, _, router := setupNotificationRouter(t)

	if rec := doJSON(t, router, http.MethodGet, "/api/notifications/me", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", rec.Code)
	}
}
