// ABOUTME: Deal database operations
// ABOUTME: Handles deal persistence, lookups, and filtered listing
package db

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/blackroad/crm/models"
)

const dealColumns = "id, contact_id, title, value, stage, probability, close_date, notes, created_at, updated_at"

func InsertDeal(db *sql.DB, deal *models.Deal) error {
	_, err := db.Exec(`
		INSERT INTO deals (`+dealColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, deal.ID.String(), deal.ContactID.String(), deal.Title, deal.Value, string(deal.Stage),
		deal.Probability, deal.CloseDate, deal.Notes, deal.CreatedAt, deal.UpdatedAt)

	return err
}

func GetDeal(db *sql.DB, id uuid.UUID) (*models.Deal, error) {
	deal, err := scanDeal(db.QueryRow(`
		SELECT `+dealColumns+` FROM deals WHERE id = ?
	`, id.String()))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return deal, nil
}

// FindDeals lists deals, optionally filtered by contact and/or stage,
// most recently updated first.
func FindDeals(db *sql.DB, contactID *uuid.UUID, stage models.Stage, limit int) ([]models.Deal, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + dealColumns + ` FROM deals WHERE 1=1`
	var params []interface{}

	if contactID != nil {
		query += " AND contact_id = ?"
		params = append(params, contactID.String())
	}
	if stage != "" {
		query += " AND stage = ?"
		params = append(params, string(stage))
	}
	query += " ORDER BY updated_at DESC LIMIT ?"
	params = append(params, limit)

	rows, err := db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *d)
	}

	return deals, rows.Err()
}

func UpdateDeal(db *sql.DB, deal *models.Deal) error {
	_, err := db.Exec(`
		UPDATE deals
		SET title = ?, value = ?, stage = ?, probability = ?, close_date = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, deal.Title, deal.Value, string(deal.Stage), deal.Probability, deal.CloseDate, deal.Notes, deal.UpdatedAt, deal.ID.String())

	return err
}

func DeleteDeal(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM deals WHERE id = ?`, id.String())
	return err
}

func scanDeal(row rowScanner) (*models.Deal, error) {
	d := &models.Deal{}
	var stage string

	err := row.Scan(
		&d.ID,
		&d.ContactID,
		&d.Title,
		&d.Value,
		&stage,
		&d.Probability,
		&d.CloseDate,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Stage = models.Stage(stage)
	return d, nil
}
