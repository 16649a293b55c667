// ABOUTME: Contact database operations
// ABOUTME: Handles CRUD operations, filtered lookups, and lead score persistence
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackroad/crm/models"
)

func CreateContact(db *sql.DB, contact *models.Contact) error {
	contact.ID = uuid.New()
	contact.CreatedAt = time.Now()
	if contact.Status == "" {
		contact.Status = models.StatusLead
	}

	tags, err := json.Marshal(tagsOrEmpty(contact.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO contacts (id, name, email, phone, company, title, tags, lead_score, status, owner, source, last_contact, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.Name, contact.Email, contact.Phone, contact.Company, contact.Title, string(tags),
		contact.LeadScore, string(contact.Status), contact.Owner, contact.Source, contact.LastContact, contact.CreatedAt)

	return err
}

func GetContact(db *sql.DB, id uuid.UUID) (*models.Contact, error) {
	return scanContactRow(db.QueryRow(`
		SELECT id, name, email, phone, company, title, tags, lead_score, status, owner, source, last_contact, created_at
		FROM contacts WHERE id = ?
	`, id.String()))
}

func GetContactByEmail(db *sql.DB, email string) (*models.Contact, error) {
	return scanContactRow(db.QueryRow(`
		SELECT id, name, email, phone, company, title, tags, lead_score, status, owner, source, last_contact, created_at
		FROM contacts WHERE email = ?
	`, email))
}

// FindContacts lists contacts, optionally filtered by status, owner, or
// tag. The tag filter is applied after scanning since tags live in a JSON
// column.
func FindContacts(db *sql.DB, status models.ContactStatus, owner, tag string, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, name, email, phone, company, title, tags, lead_score, status, owner, source, last_contact, created_at
		FROM contacts WHERE 1=1`
	var params []interface{}

	if status != "" {
		query += " AND status = ?"
		params = append(params, string(status))
	}
	if owner != "" {
		query += " AND owner = ?"
		params = append(params, owner)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	params = append(params, limit)

	rows, err := db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		if tag != "" && !hasTag(c.Tags, tag) {
			continue
		}
		contacts = append(contacts, *c)
	}

	return contacts, rows.Err()
}

func UpdateContact(db *sql.DB, id uuid.UUID, updates *models.Contact) error {
	tags, err := json.Marshal(tagsOrEmpty(updates.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = db.Exec(`
		UPDATE contacts
		SET name = ?, email = ?, phone = ?, company = ?, title = ?, tags = ?, status = ?, owner = ?, source = ?
		WHERE id = ?
	`, updates.Name, updates.Email, updates.Phone, updates.Company, updates.Title, string(tags),
		string(updates.Status), updates.Owner, updates.Source, id.String())

	return err
}

// SetLeadScore persists an already-clamped score. Clamping is the
// pipeline manager's job.
func SetLeadScore(db *sql.DB, id uuid.UUID, score int) error {
	_, err := db.Exec(`UPDATE contacts SET lead_score = ? WHERE id = ?`, score, id.String())
	return err
}

// DeleteContact removes the contact row only. Deals and activities keep
// their references; they are non-owning lookups by id.
func DeleteContact(db *sql.DB, id uuid.UUID) error {
	result, err := db.Exec(`DELETE FROM contacts WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("contact %s not found", id)
	}
	return nil
}

// TopContactsByScore returns the highest-scored contacts first.
func TopContactsByScore(db *sql.DB, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.Query(`
		SELECT id, name, email, phone, company, title, tags, lead_score, status, owner, source, last_contact, created_at
		FROM contacts
		ORDER BY lead_score DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}

	return contacts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContactRow(row *sql.Row) (*models.Contact, error) {
	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanContact(row rowScanner) (*models.Contact, error) {
	c := &models.Contact{}
	var tags, status string

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.Title,
		&tags,
		&c.LeadScore,
		&status,
		&c.Owner,
		&c.Source,
		&c.LastContact,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = models.ContactStatus(status)
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	return c, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
