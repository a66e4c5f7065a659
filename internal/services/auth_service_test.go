package services

import (
	"errors"
	"testing"
	"time"

	"lasexta-backend/internal/auth"
	"lasexta-backend/internal/models"
)

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, &fakeSender{})

	if _, err := service.Register("Ana", "Ana@Test.com", "secret123"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	// Same address, different casing.
	if _, err := service.Register("Otra Ana", "ana@test.com", "secret123"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterNormalizesEmailAndRole(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, &fakeSender{})

	user, err := service.Register("Ana", "  Ana@Test.com ", "secret123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "ana@test.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.Rol != models.RoleClient {
		t.Errorf("expected role cliente, got %q", user.Rol)
	}
}

func TestLoginFallsBackToAdmin(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, &fakeSender{})

	hash, err := auth.HashPassword("admin-secret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	createAdmin(t, db, "Root", "root@test.com", hash)

	// The unified entry point tries cliente first, then admin.
	user, err := service.Login("root@test.com", "admin-secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Rol != models.RoleAdmin {
		t.Errorf("expected role admin, got %q", user.Rol)
	}

	if _, err := service.Login("root@test.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAdminLoginRejectsClients(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, &fakeSender{})

	if _, err := service.Register("Ana", "ana@test.com", "secret123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := service.AdminLogin("ana@test.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeSender{}
	service := NewAuthService(db, sender)

	if _, err := service.Register("Ana", "ana@test.com", "old-secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := service.RequestPasswordReset("ana@test.com"); err != nil {
		t.Fatalf("reset request failed: %v", err)
	}
	if sender.resetsSent != 1 || sender.lastCode == "" {
		t.Fatal("expected a reset code email")
	}
	code := sender.lastCode

	valid, err := service.VerifyResetCode("ana@test.com", code)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !valid {
		t.Fatal("expected the fresh code to verify")
	}

	if valid, _ := service.VerifyResetCode("ana@test.com", "000000"); valid {
		t.Error("expected a wrong code to fail verification")
	}

	if err := service.ResetPassword("ana@test.com", code, "new-secret"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, err := service.Login("ana@test.com", "new-secret"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, err := service.Login("ana@test.com", "old-secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected the old password to stop working, got %v", err)
	}

	// The code is single-use.
	if err := service.ResetPassword("ana@test.com", code, "another"); !errors.Is(err, ErrResetCodeInvalid) {
		t.Errorf("expected ErrResetCodeInvalid on reuse, got %v", err)
	}
}

func TestExpiredResetCodeRejected(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeSender{}
	service := NewAuthService(db, sender)

	if _, err := service.Register("Ana", "ana@test.com", "old-secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := service.RequestPasswordReset("ana@test.com"); err != nil {
		t.Fatalf("reset request failed: %v", err)
	}

	db.Model(&models.PasswordResetCode{}).Where("email = ?", "ana@test.com").
		Update("expires_at", time.Now().Add(-time.Minute))

	if err := service.ResetPassword("ana@test.com", sender.lastCode, "new-secret"); !errors.Is(err, ErrResetCodeInvalid) {
		t.Errorf("expected ErrResetCodeInvalid for expired code, got %v", err)
	}
}

func TestRequestResetForUnknownEmailIsSilent(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeSender{}
	service := NewAuthService(db, sender)

	if err := service.RequestPasswordReset("nobody@test.com"); err != nil {
		t.Fatalf("expected silence for unknown email, got %v", err)
	}
	if sender.resetsSent != 0 {
		t.Error("expected no email for an unknown account")
	}
}

func TestListClientsCountsActiveTickets(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, &fakeSender{})
	tickets := NewTicketService(db, &fakeSender{}, NewNotificationService(db))

	ana := createClient(t, db, "Ana", "ana@test.com", 0)
	bruno := createClient(t, db, "Bruno", "bruno@test.com", 0)
	createAdmin(t, db, "Root", "root@test.com", "x")

	first, err := tickets.Issue(ana.ID, 7, "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := tickets.Issue(ana.ID, 7, ""); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := tickets.MarkUsed(first.ID, ""); err != nil {
		t.Fatalf("mark used failed: %v", err)
	}

	clients, err := service.ListClients()
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("expected 2 clients (no admins), got %d", len(clients))
	}

	// Sorted by name: Ana, Bruno.
	if clients[0].ID != ana.ID || clients[0].TicketsActivos != 1 {
		t.Errorf("expected Ana with 1 active ticket, got %+v", clients[0])
	}
	if clients[1].ID != bruno.ID || clients[1].TicketsActivos != 0 {
		t.Errorf("expected Bruno with 0 active tickets, got %+v", clients[1])
	}
}
