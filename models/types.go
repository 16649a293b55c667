// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Contact, Deal, and Activity structs with their enums
package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactStatus is the caller-managed lifecycle position of a contact.
// The core never transitions it automatically.
type ContactStatus string

const (
	StatusLead     ContactStatus = "lead"
	StatusProspect ContactStatus = "prospect"
	StatusCustomer ContactStatus = "customer"
	StatusChurned  ContactStatus = "churned"
)

// ValidStatus reports whether s is one of the known contact statuses.
func ValidStatus(s ContactStatus) bool {
	switch s {
	case StatusLead, StatusProspect, StatusCustomer, StatusChurned:
		return true
	}
	return false
}

// ActivityType categorizes a logged sales touchpoint.
type ActivityType string

const (
	ActivityCall     ActivityType = "call"
	ActivityEmail    ActivityType = "email"
	ActivityMeeting  ActivityType = "meeting"
	ActivityDemo     ActivityType = "demo"
	ActivityFollowUp ActivityType = "follow_up"
)

// ActivityTypes lists every activity type in display order.
var ActivityTypes = []ActivityType{
	ActivityCall,
	ActivityEmail,
	ActivityMeeting,
	ActivityDemo,
	ActivityFollowUp,
}

// ValidActivityType reports whether t is one of the known activity types.
func ValidActivityType(t ActivityType) bool {
	for _, known := range ActivityTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Contact struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone,omitempty"`
	Company     string        `json:"company,omitempty"`
	Title       string        `json:"title,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	LeadScore   int           `json:"lead_score"`
	Status      ContactStatus `json:"status"`
	Owner       string        `json:"owner,omitempty"`
	Source      string        `json:"source,omitempty"`
	LastContact *time.Time    `json:"last_contact,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

type Deal struct {
	ID        uuid.UUID `json:"id"`
	ContactID uuid.UUID `json:"contact_id"`
	Title     string    `json:"title"`
	Value     int64     `json:"value"` // in cents
	Stage     Stage     `json:"stage"`
	// Probability is a percent in [0,100], defaulted from the stage
	// table unless overridden at create or advance time.
	Probability int        `json:"probability"`
	CloseDate   *time.Time `json:"close_date,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// WeightedValue is the deal's value in cents scaled by its close
// probability, the forecast-relevant pipeline figure.
func (d *Deal) WeightedValue() float64 {
	return float64(d.Value) * float64(d.Probability) / 100.0
}

// Open reports whether the deal is still in play.
func (d *Deal) Open() bool {
	return !d.Stage.Terminal()
}

type Activity struct {
	ID         string       `json:"id"` // ULID, lexicographically time-ordered
	ContactID  uuid.UUID    `json:"contact_id"`
	Type       ActivityType `json:"type"`
	Summary    string       `json:"summary"`
	Outcome    string       `json:"outcome,omitempty"`
	NextAction string       `json:"next_action,omitempty"`
	RecordedAt time.Time    `json:"recorded_at"`
}
