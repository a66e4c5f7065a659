package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lasexta-backend/internal/auth"
	"lasexta-backend/internal/database"
	"lasexta-backend/internal/models"
	"lasexta-backend/internal/services"
)

func setupTicketRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	auth.InitJWT("test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ticketService := services.NewTicketService(db, nil, services.NewNotificationService(db))
	handler := NewTicketHandler(ticketService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	client := router.Group("/api")
	client.Use(auth.RequireUser())
	{
		client.GET("/tickets/users/:userId/active", handler.Active)
		client.GET("/tickets/users/:userId/history", handler.History)
	}
	return db, router
}

func createTestClient(t *testing.T, db *gorm.DB, nombre, email string) *models.User {
	t.Helper()
	user := models.User{Nombre: nombre, Email: email, PasswordHash: "x", Rol: models.RoleClient}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func getWithToken(t *testing.T, router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestActiveTicketsRequireOwnUserID(t *testing.T) {
	db, router := setupTicketRouter(t)

	ana := createTestClient(t, db, "Ana", "ana@test.com")
	bruno := createTestClient(t, db, "Bruno", "bruno@test.com")

	token, err := auth.GenerateToken(ana)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if rec := getWithToken(t, router, "/api/tickets/users/"+ana.ID+"/active", token); rec.Code != http.StatusOK {
		t.Errorf("expected 200 for own tickets, got %d", rec.Code)
	}

	// Reading another user's tickets is forbidden even with a valid token.
	if rec := getWithToken(t, router, "/api/tickets/users/"+bruno.ID+"/active", token); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for another user's tickets, got %d", rec.Code)
	}

	if rec := getWithToken(t, router, "/api/tickets/users/"+ana.ID+"/active", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestAdminTokenRejectedOnClientRoutes(t *testing.T) {
	db, router := setupTicketRouter(t)

	admin := models.User{Nombre: "Root", Email: "root@test.com", PasswordHash: "x", Rol: models.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	token, err := auth.GenerateToken(&admin)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if rec := getWithToken(t, router, "/api/tickets/users/"+admin.ID+"/history", token); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for an admin token on a client route, got %d", rec.Code)
	}
}
