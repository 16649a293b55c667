// ABOUTME: Tests for contact database operations
// ABOUTME: Validates CRUD, filtered listing, and score persistence
package db

import (
	"testing"

	"github.com/google/uuid"

	"github.com/blackroad/crm/models"
)

func TestCreateAndGetContact(t *testing.T) {
	db := setupTestDB(t)

	contact := &models.Contact{
		Name:    "Alice Johnson",
		Email:   "alice@acme.com",
		Company: "Acme Corp",
		Title:   "VP Sales",
		Tags:    []string{"enterprise"},
		Source:  "linkedin",
	}

	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	if contact.ID == uuid.Nil {
		t.Error("ID was not assigned")
	}
	if contact.Status != models.StatusLead {
		t.Errorf("Expected default status lead, got %s", contact.Status)
	}

	fetched, err := GetContact(db, contact.ID)
	if err != nil {
		t.Fatalf("GetContact failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("Contact not found")
	}
	if fetched.Name != "Alice Johnson" {
		t.Errorf("Expected name 'Alice Johnson', got %s", fetched.Name)
	}
	if len(fetched.Tags) != 1 || fetched.Tags[0] != "enterprise" {
		t.Errorf("Tags did not round-trip: %v", fetched.Tags)
	}
}

func TestGetContactMissing(t *testing.T) {
	db := setupTestDB(t)

	contact, err := GetContact(db, uuid.New())
	if err != nil {
		t.Fatalf("GetContact failed: %v", err)
	}
	if contact != nil {
		t.Error("Expected nil for missing contact")
	}
}

func TestGetContactByEmail(t *testing.T) {
	db := setupTestDB(t)

	contact := &models.Contact{Name: "Bob Smith", Email: "bob@startup.io"}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	fetched, err := GetContactByEmail(db, "bob@startup.io")
	if err != nil {
		t.Fatalf("GetContactByEmail failed: %v", err)
	}
	if fetched == nil || fetched.ID != contact.ID {
		t.Error("Lookup by email did not return the contact")
	}

	missing, err := GetContactByEmail(db, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetContactByEmail failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown email")
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	db := setupTestDB(t)

	first := &models.Contact{Name: "First", Email: "dup@example.com"}
	if err := CreateContact(db, first); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	second := &models.Contact{Name: "Second", Email: "dup@example.com"}
	if err := CreateContact(db, second); err == nil {
		t.Error("Expected unique constraint error for duplicate email")
	}
}

func TestFindContactsFilters(t *testing.T) {
	db := setupTestDB(t)

	seed := []*models.Contact{
		{Name: "Lead One", Email: "l1@x.com", Status: models.StatusLead, Owner: "harper", Tags: []string{"enterprise"}},
		{Name: "Prospect One", Email: "p1@x.com", Status: models.StatusProspect, Owner: "harper"},
		{Name: "Customer One", Email: "c1@x.com", Status: models.StatusCustomer, Owner: "dana", Tags: []string{"startup"}},
	}
	for _, c := range seed {
		if err := CreateContact(db, c); err != nil {
			t.Fatalf("CreateContact failed: %v", err)
		}
	}

	leads, err := FindContacts(db, models.StatusLead, "", "", 0)
	if err != nil {
		t.Fatalf("FindContacts failed: %v", err)
	}
	if len(leads) != 1 {
		t.Errorf("Expected 1 lead, got %d", len(leads))
	}

	byOwner, err := FindContacts(db, "", "harper", "", 0)
	if err != nil {
		t.Fatalf("FindContacts failed: %v", err)
	}
	if len(byOwner) != 2 {
		t.Errorf("Expected 2 contacts for owner harper, got %d", len(byOwner))
	}

	byTag, err := FindContacts(db, "", "", "startup", 0)
	if err != nil {
		t.Fatalf("FindContacts failed: %v", err)
	}
	if len(byTag) != 1 || byTag[0].Name != "Customer One" {
		t.Errorf("Tag filter returned %v", byTag)
	}
}

func TestUpdateContact(t *testing.T) {
	db := setupTestDB(t)

	contact := &models.Contact{Name: "Carol Williams", Email: "carol@bigco.com", Status: models.StatusLead}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	contact.Status = models.StatusProspect
	contact.Company = "BigCo"
	if err := UpdateContact(db, contact.ID, contact); err != nil {
		t.Fatalf("UpdateContact failed: %v", err)
	}

	fetched, err := GetContact(db, contact.ID)
	if err != nil {
		t.Fatalf("GetContact failed: %v", err)
	}
	if fetched.Status != models.StatusProspect {
		t.Errorf("Expected status prospect, got %s", fetched.Status)
	}
	if fetched.Company != "BigCo" {
		t.Errorf("Expected company BigCo, got %s", fetched.Company)
	}
}

func TestSetLeadScore(t *testing.T) {
	db := setupTestDB(t)

	contact := &models.Contact{Name: "Scored", Email: "scored@x.com"}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	if err := SetLeadScore(db, contact.ID, 45); err != nil {
		t.Fatalf("SetLeadScore failed: %v", err)
	}

	fetched, _ := GetContact(db, contact.ID)
	if fetched.LeadScore != 45 {
		t.Errorf("Expected score 45, got %d", fetched.LeadScore)
	}
}

func TestDeleteContact(t *testing.T) {
	db := setupTestDB(t)

	contact := &models.Contact{Name: "Gone", Email: "gone@x.com"}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	if err := DeleteContact(db, contact.ID); err != nil {
		t.Fatalf("DeleteContact failed: %v", err)
	}

	fetched, _ := GetContact(db, contact.ID)
	if fetched != nil {
		t.Error("Contact should be gone")
	}

	if err := DeleteContact(db, contact.ID); err == nil {
		t.Error("Expected error deleting missing contact")
	}
}

func TestTopContactsByScore(t *testing.T) {
	db := setupTestDB(t)

	scores := map[string]int{"low@x.com": 10, "mid@x.com": 50, "high@x.com": 90}
	for email, score := range scores {
		c := &models.Contact{Name: email, Email: email}
		if err := CreateContact(db, c); err != nil {
			t.Fatalf("CreateContact failed: %v", err)
		}
		if err := SetLeadScore(db, c.ID, score); err != nil {
			t.Fatalf("SetLeadScore failed: %v", err)
		}
	}

	top, err := TopContactsByScore(db, 2)
	if err != nil {
		t.Fatalf("TopContactsByScore failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("Expected 2 contacts, got %d", len(top))
	}
	if top[0].LeadScore != 90 || top[1].LeadScore != 50 {
		t.Errorf("Expected scores [90 50], got [%d %d]", top[0].LeadScore, top[1].LeadScore)
	}
}
