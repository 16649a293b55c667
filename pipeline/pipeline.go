// ABOUTME: Deal lifecycle manager and lead scoring
// ABOUTME: Owns stage transitions, probability resolution, and score clamping
package pipeline

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackroad/crm/db"
	"github.com/blackroad/crm/models"
)

// Manager applies every mutation the pipeline core defines. All writes go
// through the single-connection pool, so operations on the same record
// never interleave.
type Manager struct {
	db *sql.DB
}

func NewManager(database *sql.DB) *Manager {
	return &Manager{db: database}
}

// CreateDealParams carries the inputs for a new deal. Probability, when
// non-nil, overrides the stage's canonical default.
type CreateDealParams struct {
	ContactID   uuid.UUID
	Title       string
	Value       int64 // in cents
	Stage       models.Stage
	Probability *int
	CloseDate   *time.Time
	Notes       string
}

// CreateDeal creates a deal linked to an existing contact. The deal's
// probability comes from the stage table unless explicitly overridden.
func (m *Manager) CreateDeal(params CreateDealParams) (*models.Deal, error) {
	if params.Title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidValue)
	}
	if params.Value < 0 {
		return nil, fmt.Errorf("deal value must be non-negative, got %d: %w", params.Value, ErrInvalidValue)
	}
	if !models.ValidStage(params.Stage) {
		return nil, fmt.Errorf("unknown stage %q: %w", params.Stage, ErrInvalidValue)
	}

	probability := params.Stage.DefaultProbability()
	if params.Probability != nil {
		if *params.Probability < 0 || *params.Probability > 100 {
			return nil, fmt.Errorf("probability must be within [0,100], got %d: %w", *params.Probability, ErrInvalidValue)
		}
		probability = *params.Probability
	}

	contact, err := db.GetContact(m.db, params.ContactID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up contact: %w", err)
	}
	if contact == nil {
		return nil, fmt.Errorf("contact %s: %w", params.ContactID, ErrNotFound)
	}

	now := time.Now()
	deal := &models.Deal{
		ID:          uuid.New(),
		ContactID:   params.ContactID,
		Title:       params.Title,
		Value:       params.Value,
		Stage:       params.Stage,
		Probability: probability,
		CloseDate:   params.CloseDate,
		Notes:       params.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := db.InsertDeal(m.db, deal); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	return deal, nil
}

// AdvanceDeal moves a deal to a new stage. The canonical order is
// advisory only; backward moves are legal. Deals in a terminal stage can
// never move again. Probability resets to the new stage's default unless
// an override within [0,100] is supplied.
func (m *Manager) AdvanceDeal(dealID uuid.UUID, newStage models.Stage, probabilityOverride *int) (*models.Deal, error) {
	if !models.ValidStage(newStage) {
		return nil, fmt.Errorf("unknown stage %q: %w", newStage, ErrInvalidValue)
	}
	if probabilityOverride != nil && (*probabilityOverride < 0 || *probabilityOverride > 100) {
		return nil, fmt.Errorf("probability must be within [0,100], got %d: %w", *probabilityOverride, ErrInvalidValue)
	}

	deal, err := db.GetDeal(m.db, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up deal: %w", err)
	}
	if deal == nil {
		return nil, fmt.Errorf("deal %s: %w", dealID, ErrNotFound)
	}
	if deal.Stage.Terminal() {
		return nil, fmt.Errorf("deal %s is already %s: %w", dealID, deal.Stage, ErrInvalidTransition)
	}

	deal.Stage = newStage
	deal.Probability = newStage.DefaultProbability()
	if probabilityOverride != nil {
		deal.Probability = *probabilityOverride
	}
	deal.UpdatedAt = time.Now()

	if err := db.UpdateDeal(m.db, deal); err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}

	return deal, nil
}

// UpdateLeadScore adds delta to the contact's score and clamps the result
// to [0,100]. Status is never touched; the contact lifecycle is the
// caller's to manage.
func (m *Manager) UpdateLeadScore(contactID uuid.UUID, delta int) (*models.Contact, error) {
	contact, err := db.GetContact(m.db, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up contact: %w", err)
	}
	if contact == nil {
		return nil, fmt.Errorf("contact %s: %w", contactID, ErrNotFound)
	}

	contact.LeadScore = clampScore(contact.LeadScore + delta)

	if err := db.SetLeadScore(m.db, contactID, contact.LeadScore); err != nil {
		return nil, fmt.Errorf("failed to update lead score: %w", err)
	}

	return contact, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
