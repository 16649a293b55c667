// ABOUTME: Tests for contact MCP tool handlers
// ABOUTME: Validates tool input/output and error handling
package handlers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/blackroad/crm/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func TestAddContactHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	input := AddContactInput{
		Name:    "John Doe",
		Email:   "john@example.com",
		Phone:   "555-1234",
		Company: "Example Inc",
		Tags:    []string{"inbound"},
	}

	_, output, err := handler.AddContact(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	if output.Name != "John Doe" {
		t.Errorf("Expected name 'John Doe', got %v", output.Name)
	}
	if output.Email != "john@example.com" {
		t.Errorf("Expected email 'john@example.com', got %v", output.Email)
	}
	if output.ID == "" {
		t.Error("ID was not set")
	}
	if output.Status != "lead" {
		t.Errorf("Expected default status 'lead', got %v", output.Status)
	}
}

func TestAddContactRequiresNameAndEmail(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	if _, _, err := handler.AddContact(context.Background(), nil, AddContactInput{Email: "x@y.com"}); err == nil {
		t.Error("Expected error for missing name")
	}
	if _, _, err := handler.AddContact(context.Background(), nil, AddContactInput{Name: "No Email"}); err == nil {
		t.Error("Expected error for missing email")
	}
}

func TestAddContactRejectsDuplicateEmail(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	input := AddContactInput{Name: "First", Email: "dup@example.com"}
	if _, _, err := handler.AddContact(context.Background(), nil, input); err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	input.Name = "Second"
	if _, _, err := handler.AddContact(context.Background(), nil, input); err == nil {
		t.Error("Expected error for duplicate email")
	}
}

func TestAddContactRejectsInvalidStatus(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	input := AddContactInput{Name: "Bad Status", Email: "bad@example.com", Status: "vip"}
	if _, _, err := handler.AddContact(context.Background(), nil, input); err == nil {
		t.Error("Expected error for invalid status")
	}
}

func TestFindContactsHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	seeds := []AddContactInput{
		{Name: "Lead One", Email: "l1@example.com", Owner: "harper", Tags: []string{"enterprise"}},
		{Name: "Lead Two", Email: "l2@example.com", Owner: "harper"},
		{Name: "Customer", Email: "c@example.com", Status: "customer"},
	}
	for _, seed := range seeds {
		if _, _, err := handler.AddContact(context.Background(), nil, seed); err != nil {
			t.Fatalf("AddContact failed: %v", err)
		}
	}

	_, output, err := handler.FindContacts(context.Background(), nil, FindContactsInput{})
	if err != nil {
		t.Fatalf("FindContacts failed: %v", err)
	}
	if output.Count != 3 {
		t.Errorf("Expected 3 contacts, got %d", output.Count)
	}

	_, output, err = handler.FindContacts(context.Background(), nil, FindContactsInput{Status: "lead", Owner: "harper"})
	if err != nil {
		t.Fatalf("FindContacts failed: %v", err)
	}
	if output.Count != 2 {
		t.Errorf("Expected 2 leads owned by harper, got %d", output.Count)
	}

	_, output, err = handler.FindContacts(context.Background(), nil, FindContactsInput{Tag: "enterprise"})
	if err != nil {
		t.Fatalf("FindContacts failed: %v", err)
	}
	if output.Count != 1 {
		t.Errorf("Expected 1 tagged contact, got %d", output.Count)
	}
}

func TestUpdateContactHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	_, created, err := handler.AddContact(context.Background(), nil, AddContactInput{
		Name:  "Before",
		Email: "update@example.com",
	})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	_, updated, err := handler.UpdateContact(context.Background(), nil, UpdateContactInput{
		ID:     created.ID,
		Name:   "After",
		Status: "prospect",
	})
	if err != nil {
		t.Fatalf("UpdateContact failed: %v", err)
	}

	if updated.Name != "After" {
		t.Errorf("Expected updated name 'After', got %v", updated.Name)
	}
	if updated.Status != "prospect" {
		t.Errorf("Expected status 'prospect', got %v", updated.Status)
	}
	if updated.Email != "update@example.com" {
		t.Errorf("Untouched field changed: %v", updated.Email)
	}
}

func TestUpdateLeadScoreHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	_, created, err := handler.AddContact(context.Background(), nil, AddContactInput{
		Name:  "Scored",
		Email: "score@example.com",
	})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	_, output, err := handler.UpdateLeadScore(context.Background(), nil, UpdateLeadScoreInput{
		ContactID: created.ID,
		Delta:     250,
	})
	if err != nil {
		t.Fatalf("UpdateLeadScore failed: %v", err)
	}
	if output.LeadScore != 100 {
		t.Errorf("Expected clamped score 100, got %d", output.LeadScore)
	}
}

func TestDeleteContactHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	_, created, err := handler.AddContact(context.Background(), nil, AddContactInput{
		Name:  "Doomed",
		Email: "doomed@example.com",
	})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	_, output, err := handler.DeleteContact(context.Background(), nil, DeleteContactInput{ID: created.ID})
	if err != nil {
		t.Fatalf("DeleteContact failed: %v", err)
	}
	if !output.Success {
		t.Error("Expected success")
	}

	if _, _, err := handler.DeleteContact(context.Background(), nil, DeleteContactInput{ID: created.ID}); err == nil {
		t.Error("Expected error deleting missing contact")
	}
}
