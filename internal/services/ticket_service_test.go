package services

import (
	"errors"
	"testing"
	"time"

	"lasexta-backend/internal/models"
)

func TestIssueRetainsTwoMostRecentTickets(t *testing.T) {
	db := setupTestDB(t)
	notifications := NewNotificationService(db)
	service := NewTicketService(db, &fakeSender{}, notifications)

	user := createClient(t, db, "Ana", "ana@test.com", 0)

	var codes []string
	for i := 0; i < 3; i++ {
		// Spread creation times so "most recent" is well defined.
		ticket, err := service.Issue(user.ID, 0, "")
		if err != nil {
			t.Fatalf("issue %d failed: %v", i, err)
		}
		codes = append(codes, ticket.Code)
		db.Model(&models.Ticket{}).Where("id = ?", ticket.ID).
			Update("created_at", time.Now().Add(time.Duration(i)*time.Minute))
	}

	tickets, err := service.TicketsForUser(user.ID)
	if err != nil {
		t.Fatalf("TicketsForUser failed: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("expected 2 retained tickets, got %d", len(tickets))
	}
	if tickets[0].Code != codes[2] || tickets[1].Code != codes[1] {
		t.Errorf("expected the two newest tickets retained, got %s and %s", tickets[0].Code, tickets[1].Code)
	}
}

func TestIssueAppliesDefaultValidity(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db, &fakeSender{}, NewNotificationService(db))

	user := createClient(t, db, "Ana", "ana@test.com", 0)

	ticket, err := service.Issue(user.ID, 0, "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if ticket.ExpiresAt == nil {
		t.Fatal("expected an expiry date")
	}

	expected := time.Now().AddDate(0, 0, DefaultTicketValidityDays)
	if diff := ticket.ExpiresAt.Sub(expected); diff > time.Minute || diff < -time.Minute {
		t.Errorf("expected expiry around %v, got %v", expected, *ticket.ExpiresAt)
	}
}

func TestIssueUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db, &fakeSender{}, NewNotificationService(db))

	if _, err := service.Issue("00000000-0000-0000-0000-000000000000", 7, ""); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestValidateByCodeConsumesExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db, &fakeSender{}, NewNotificationService(db))

	user := createClient(t, db, "Ana", "ana@test.com", 0)
	admin := createAdmin(t, db, "Root", "root@test.com", "x")

	issued, err := service.Issue(user.ID, 7, admin.ID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	validated, err := service.ValidateByCode(issued.Code, admin.ID)
	if err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	if validated.Status != models.TicketStatusUsed {
		t.Errorf("expected status %s, got %s", models.TicketStatusUsed, validated.Status)
	}
	if validated.UsedAt == nil {
		t.Error("expected UsedAt to be set")
	}

	if _, err := service.ValidateByCode(issued.Code, admin.ID); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("expected ErrTicketNotFound on second validation, got %v", err)
	}
}

func TestMarkUsedUnknownTicket(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db, &fakeSender{}, NewNotificationService(db))

	if _, err := service.MarkUsed("00000000-0000-0000-0000-000000000000", ""); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestActiveAndHistorySplit(t *testing.T) {
	db := setupTestDB(t)
	service := NewTicketService(db, &fakeSender{}, NewNotificationService(db))

	user := createClient(t, db, "Ana", "ana@test.com", 0)

	first, err := service.Issue(user.ID, 7, "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	second, err := service.Issue(user.ID, 7, "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := service.MarkUsed(first.ID, ""); err != nil {
		t.Fatalf("mark used failed: %v", err)
	}

	active, err := service.ActiveForUser(user.ID)
	if err != nil {
		t.Fatalf("ActiveForUser failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != second.ID {
		t.Errorf("expected only the second ticket active, got %d tickets", len(active))
	}

	history, err := service.HistoryForUser(user.ID)
	if err != nil {
		t.Fatalf("HistoryForUser failed: %v", err)
	}
	if len(history) != 1 || history[0].ID != first.ID {
		t.Errorf("expected only the first ticket in history, got %d tickets", len(history))
	}
}

func TestSendEmailsTicketAndNotifies(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeSender{}
	notifications := NewNotificationService(db)
	service := NewTicketService(db, sender, notifications)

	user := createClient(t, db, "Ana", "ana@test.com", 0)
	ticket, err := service.Issue(user.ID, 7, "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if err := service.Send(user.ID, ticket.ID); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if sender.ticketsSent != 1 || sender.lastTo != user.Email || sender.lastCode != ticket.Code {
		t.Errorf("expected one ticket email to %s with code %s", user.Email, ticket.Code)
	}

	list, err := notifications.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 1 || list[0].Tipo != models.NotificationTicket {
		t.Errorf("expected one ticket notification, got %d", len(list))
	}
}

func TestSendFailureSurfaces(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeSender{failWith: errors.New("relay down")}
	service := NewTicketService(db, sender, NewNotificationService(db))

	user := createClient(t, db, "Ana", "ana@test.com", 0)
	ticket, err := service.Issue(user.ID, 7, "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if err := service.Send(user.ID, ticket.ID); err == nil {
		t.Error("expected the email failure to surface")
	}
}
