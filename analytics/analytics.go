// ABOUTME: Read-side analytics over the full CRM record set
// ABOUTME: Pipeline value, funnels, win rate, and activity summaries
package analytics

import (
	"database/sql"
	"fmt"

	"github.com/blackroad/crm/models"
)

// Engine computes reports from the current record set. It never mutates
// state; each report runs its queries inside one read transaction so the
// figures come from a single consistent snapshot.
type Engine struct {
	db *sql.DB
}

func NewEngine(database *sql.DB) *Engine {
	return &Engine{db: database}
}

// PipelineValue summarizes the open pipeline: deals not yet closed won or
// lost. WeightedValue is the forecast figure, value scaled by probability.
type PipelineValue struct {
	OpenCount     int     `json:"open_count"`
	TotalValue    int64   `json:"total_value"` // in cents
	WeightedValue float64 `json:"weighted_value"`
}

func (e *Engine) PipelineValue() (*PipelineValue, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	report := &PipelineValue{}
	err = tx.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(value), 0), COALESCE(SUM(value * probability / 100.0), 0)
		FROM deals
		WHERE stage NOT IN (?, ?)
	`, string(models.StageClosedWon), string(models.StageClosedLost)).Scan(
		&report.OpenCount,
		&report.TotalValue,
		&report.WeightedValue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute pipeline value: %w", err)
	}

	return report, nil
}

// StageCount pairs a stage with the number of deals currently sitting at
// it. Counts are a snapshot of current stages, not a transition history.
type StageCount struct {
	Stage models.Stage `json:"stage"`
	Count int          `json:"count"`
}

// Funnel holds per-stage snapshot counts in canonical order plus terminal
// win/loss totals.
type Funnel struct {
	Stages []StageCount `json:"stages"`
	Won    int          `json:"won"`
	Lost   int          `json:"lost"`
}

func (e *Engine) ConversionFunnel() (*Funnel, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	counts, err := stageCounts(tx)
	if err != nil {
		return nil, err
	}

	funnel := &Funnel{
		Won:  counts[models.StageClosedWon],
		Lost: counts[models.StageClosedLost],
	}
	for _, stage := range models.Stages {
		funnel.Stages = append(funnel.Stages, StageCount{Stage: stage, Count: counts[stage]})
	}

	return funnel, nil
}

// WinRate returns closed_won / (closed_won + closed_lost), or 0 when no
// deal has closed yet.
func (e *Engine) WinRate() (float64, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	counts, err := stageCounts(tx)
	if err != nil {
		return 0, err
	}

	won := counts[models.StageClosedWon]
	lost := counts[models.StageClosedLost]
	if won+lost == 0 {
		return 0, nil
	}

	return float64(won) / float64(won+lost), nil
}

// ActivitySummary counts activities grouped by type.
type ActivitySummary struct {
	ByType map[models.ActivityType]int `json:"by_type"`
	Total  int                         `json:"total"`
}

func (e *Engine) ActivitySummary() (*ActivitySummary, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.Query(`SELECT type, COUNT(*) FROM activities GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize activities: %w", err)
	}
	defer rows.Close()

	summary := &ActivitySummary{ByType: make(map[models.ActivityType]int)}
	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, err
		}
		summary.ByType[models.ActivityType(typ)] = count
		summary.Total += count
	}

	return summary, rows.Err()
}

// ContactFunnel breaks contacts down by status with stage-to-stage
// conversion rates. Rates degrade to 0 on empty denominators.
type ContactFunnel struct {
	TotalContacts         int     `json:"total_contacts"`
	Leads                 int     `json:"leads"`
	Prospects             int     `json:"prospects"`
	Customers             int     `json:"customers"`
	Churned               int     `json:"churned"`
	LeadToProspectRate    float64 `json:"lead_to_prospect_rate"`
	ProspectToCustomer    float64 `json:"prospect_to_customer_rate"`
	OverallConversionRate float64 `json:"overall_conversion_rate"`
}

func (e *Engine) ContactFunnel() (*ContactFunnel, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.Query(`SELECT status, COUNT(*) FROM contacts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}
	defer rows.Close()

	funnel := &ContactFunnel{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		switch models.ContactStatus(status) {
		case models.StatusLead:
			funnel.Leads = count
		case models.StatusProspect:
			funnel.Prospects = count
		case models.StatusCustomer:
			funnel.Customers = count
		case models.StatusChurned:
			funnel.Churned = count
		}
		funnel.TotalContacts += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	funnel.LeadToProspectRate = ratio(funnel.Prospects, funnel.Leads)
	funnel.ProspectToCustomer = ratio(funnel.Customers, funnel.Prospects)
	funnel.OverallConversionRate = ratio(funnel.Customers, funnel.TotalContacts)

	return funnel, nil
}

func stageCounts(tx *sql.Tx) (map[models.Stage]int, error) {
	rows, err := tx.Query(`SELECT stage, COUNT(*) FROM deals GROUP BY stage`)
	if err != nil {
		return nil, fmt.Errorf("failed to count deals by stage: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Stage]int)
	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		counts[models.Stage(stage)] = count
	}

	return counts, rows.Err()
}

func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}
