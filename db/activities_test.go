// ABOUTME: Tests for activity database operations
// ABOUTME: Validates logging, last_contact updates, and timeline ordering
package db

import (
	"testing"
	"time"

	"github.com/blackroad/crm/models"
)

func TestLogActivity(t *testing.T) {
	db := setupTestDB(t)

	contact := &models.Contact{Name: "Active", Email: "active@x.com"}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	activity := &models.Activity{
		ContactID: contact.ID,
		Type:      models.ActivityCall,
		Summary:   "Discovery call",
		Outcome:   "Interested in Q2 deal",
	}

	if err := LogActivity(db, activity); err != nil {
		t.Fatalf("LogActivity failed: %v", err)
	}

	if activity.ID == "" {
		t.Error("Activity ID was not assigned")
	}
	if activity.RecordedAt.IsZero() {
		t.Error("RecordedAt was not defaulted")
	}
}

func TestLogActivityUpdatesLastContact(t *testing.T) {
	db := setupTestDB(t)

	contact := &models.Contact{Name: "Touched", Email: "touched@x.com"}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	before, _ := GetContact(db, contact.ID)
	if before.LastContact != nil {
		t.Fatal("New contact should have no last_contact")
	}

	activity := &models.Activity{
		ContactID: contact.ID,
		Type:      models.ActivityDemo,
		Summary:   "Product demo",
	}
	if err := LogActivity(db, activity); err != nil {
		t.Fatalf("LogActivity failed: %v", err)
	}

	after, _ := GetContact(db, contact.ID)
	if after.LastContact == nil {
		t.Error("last_contact should be set after logging an activity")
	}
}

func TestListActivitiesNewestFirst(t *testing.T) {
	db := setupTestDB(t)

	contact := &models.Contact{Name: "Timeline", Email: "timeline@x.com"}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	summaries := []string{"first", "second", "third"}
	for i, summary := range summaries {
		activity := &models.Activity{
			ContactID:  contact.ID,
			Type:       models.ActivityEmail,
			Summary:    summary,
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := LogActivity(db, activity); err != nil {
			t.Fatalf("LogActivity failed: %v", err)
		}
	}

	activities, err := ListActivities(db, contact.ID, 0)
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(activities) != 3 {
		t.Fatalf("Expected 3 activities, got %d", len(activities))
	}
	if activities[0].Summary != "third" || activities[2].Summary != "first" {
		t.Errorf("Activities not ordered newest first: %s, %s, %s",
			activities[0].Summary, activities[1].Summary, activities[2].Summary)
	}
}

func TestActivityIDsSortByTime(t *testing.T) {
	db := setupTestDB(t)

	contact := &models.Contact{Name: "Sorted", Email: "sorted@x.com"}
	if err := CreateContact(db, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	var ids []string
	for i := 0; i < 3; i++ {
		activity := &models.Activity{
			ContactID: contact.ID,
			Type:      models.ActivityFollowUp,
			Summary:   "ping",
		}
		if err := LogActivity(db, activity); err != nil {
			t.Fatalf("LogActivity failed: %v", err)
		}
		ids = append(ids, activity.ID)
		time.Sleep(2 * time.Millisecond)
	}

	// ULIDs sort lexicographically by creation time
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("Expected ids in ascending order, got %s then %s", ids[i-1], ids[i])
		}
	}
}
