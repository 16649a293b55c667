// ABOUTME: Tests for the deal lifecycle manager and lead scoring
// ABOUTME: Covers probability resolution, terminal stages, and score clamping
package pipeline

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackroad/crm/db"
	"github.com/blackroad/crm/models"
)

func setupManager(t *testing.T) (*Manager, *sql.DB) {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return NewManager(database), database
}

func seedContact(t *testing.T, database *sql.DB) *models.Contact {
	t.Helper()

	contact := &models.Contact{Name: "Alice Johnson", Email: "alice@acme.com"}
	require.NoError(t, db.CreateContact(database, contact))
	return contact
}

func intPtr(v int) *int { return &v }

func TestCreateDealDefaultsProbabilityFromStage(t *testing.T) {
	manager, database := setupManager(t)
	contact := seedContact(t, database)

	deal, err := manager.CreateDeal(CreateDealParams{
		ContactID: contact.ID,
		Title:     "Enterprise License Q1",
		Value:     15000000,
		Stage:     models.StageQualified,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StageQualified, deal.Stage)
	assert.Equal(t, 25, deal.Probability)
	assert.Equal(t, int64(15000000), deal.Value)
	assert.False(t, deal.CreatedAt.IsZero())
}

func TestCreateDealProbabilityOverride(t *testing.T) {
	manager, database := setupManager(t)
	contact := seedContact(t, database)

	deal, err := manager.CreateDeal(CreateDealParams{
		ContactID:   contact.ID,
		Title:       "Hot Deal",
		Value:       100000,
		Stage:       models.StageProspecting,
		Probability: intPtr(40),
	})
	require.NoError(t, err)
	assert.Equal(t, 40, deal.Probability)
}

func TestCreateDealRejectsBadInput(t *testing.T) {
	manager, database := setupManager(t)
	contact := seedContact(t, database)

	_, err := manager.CreateDeal(CreateDealParams{
		ContactID: contact.ID,
		Title:     "Negative",
		Value:     -1,
		Stage:     models.StageProspecting,
	})
	require.ErrorIs(t, err, ErrInvalidValue)

	_, err = manager.CreateDeal(CreateDealParams{
		ContactID:   contact.ID,
		Title:       "Over",
		Value:       100,
		Stage:       models.StageProspecting,
		Probability: intPtr(101),
	})
	require.ErrorIs(t, err, ErrInvalidValue)

	_, err = manager.CreateDeal(CreateDealParams{
		ContactID: uuid.New(),
		Title:     "Orphan",
		Value:     100,
		Stage:     models.StageProspecting,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdvanceDealSetsStageDefault(t *testing.T) {
	manager, database := setupManager(t)
	contact := seedContact(t, database)

	deal, err := manager.CreateDeal(CreateDealParams{
		ContactID: contact.ID,
		Title:     "Moving Deal",
		Value:     4500000,
		Stage:     models.StageQualified,
	})
	require.NoError(t, err)

	advanced, err := manager.AdvanceDeal(deal.ID, models.StageNegotiation, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StageNegotiation, advanced.Stage)
	assert.Equal(t, 75, advanced.Probability)
	assert.True(t, advanced.UpdatedAt.After(deal.CreatedAt) || advanced.UpdatedAt.Equal(deal.CreatedAt))
}

func TestAdvanceDealBackwardMoveAllowed(t *testing.T) {
	manager, database := setupManager(t)
	contact := seedContact(t, database)

	deal, err := manager.CreateDeal(CreateDealParams{
		ContactID: contact.ID,
		Title:     "Regressing Deal",
		Value:     100000,
		Stage:     models.StageNegotiation,
	})
	require.NoError(t, err)

	// Real sales cycles regress; backward moves are legal
	back, err := manager.AdvanceDeal(deal.ID, models.StageQualified, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StageQualified, back.Stage)
	assert.Equal(t, 25, back.Probability)
}

func TestAdvanceDealOverride(t *testing.T) {
	manager, database := setupManager(t)
	contact := seedContact(t, database)

	deal, err := manager.CreateDeal(CreateDealParams{
		ContactID: contact.ID,
		Title:     "Custom Odds",
		Value:     100000,
		Stage:     models.StageProposal,
	})
	require.NoError(t, err)

	advanced, err := manager.AdvanceDeal(deal.ID, models.StageNegotiation, intPtr(90))
	require.NoError(t, err)
	assert.Equal(t, 90, advanced.Probability)

	_, err = manager.AdvanceDeal(deal.ID, models.StageProposal, intPtr(-5))
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestAdvanceTerminalDealFails(t *testing.T) {
	manager, database := setupManager(t)
	contact := seedContact(t, database)

	for _, terminal := range []models.Stage{models.StageClosedWon, models.StageClosedLost} {
		deal, err := manager.CreateDeal(CreateDealParams{
			ContactID: contact.ID,
			Title:     "Closed " + string(terminal),
			Value:     100000,
			Stage:     models.StageProspecting,
		})
		require.NoError(t, err)

		_, err = manager.AdvanceDeal(deal.ID, terminal, nil)
		require.NoError(t, err)

		// Every target stage must fail once the deal is terminal
		for _, target := range models.Stages {
			_, err = manager.AdvanceDeal(deal.ID, target, nil)
			assert.ErrorIs(t, err, ErrInvalidTransition, "advance from %s to %s should fail", terminal, target)
		}
	}
}

func TestAdvanceDealNotFound(t *testing.T) {
	manager, _ := setupManager(t)

	_, err := manager.AdvanceDeal(uuid.New(), models.StageProposal, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateLeadScoreClamping(t *testing.T) {
	manager, database := setupManager(t)
	contact := seedContact(t, database)

	updated, err := manager.UpdateLeadScore(contact.ID, 45)
	require.NoError(t, err)
	assert.Equal(t, 45, updated.LeadScore)

	updated, err = manager.UpdateLeadScore(contact.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.LeadScore, "score clamps at 100")

	updated, err = manager.UpdateLeadScore(contact.ID, -1000)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.LeadScore, "score clamps at 0")
}

func TestUpdateLeadScoreClampOrderSensitivity(t *testing.T) {
	manager, database := setupManager(t)
	contact := seedContact(t, database)

	// Applying +80 then +30 clamps at 100; a later -30 lands on 70.
	// Summing the deltas first (80+30-30=80) would give a different
	// result, so repeated deltas are only order-independent away from
	// the boundaries.
	for _, delta := range []int{80, 30, -30} {
		_, err := manager.UpdateLeadScore(contact.ID, delta)
		require.NoError(t, err)
	}

	updated, err := manager.UpdateLeadScore(contact.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 70, updated.LeadScore)
}

func TestUpdateLeadScoreNotFound(t *testing.T) {
	manager, _ := setupManager(t)

	_, err := manager.UpdateLeadScore(uuid.New(), 10)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateLeadScoreNeverTouchesStatus(t *testing.T) {
	manager, database := setupManager(t)
	contact := seedContact(t, database)

	_, err := manager.UpdateLeadScore(contact.ID, 100)
	require.NoError(t, err)

	fetched, err := db.GetContact(database, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLead, fetched.Status, "status transitions are the caller's job")
}
