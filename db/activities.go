// ABOUTME: Activity database operations
// ABOUTME: Handles activity logging and per-contact timeline listing
package db

import (
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/blackroad/crm/models"
)

// LogActivity records a sales activity and bumps the contact's
// last_contact timestamp in the same transaction.
func LogActivity(db *sql.DB, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = newULID()
	}
	if activity.RecordedAt.IsZero() {
		activity.RecordedAt = time.Now()
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	_, err = tx.Exec(`
		INSERT INTO activities (id, contact_id, type, summary, outcome, next_action, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, activity.ID, activity.ContactID.String(), string(activity.Type), activity.Summary,
		activity.Outcome, activity.NextAction, activity.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE contacts SET last_contact = ? WHERE id = ?
	`, activity.RecordedAt, activity.ContactID.String())
	if err != nil {
		return fmt.Errorf("failed to update contact last_contact: %w", err)
	}

	return tx.Commit()
}

// ListActivities returns a contact's activities, newest first.
func ListActivities(db *sql.DB, contactID uuid.UUID, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, contact_id, type, summary, outcome, next_action, recorded_at
		FROM activities
		WHERE contact_id = ?
		ORDER BY recorded_at DESC
		LIMIT ?
	`, contactID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		var typ string

		if err := rows.Scan(&a.ID, &a.ContactID, &typ, &a.Summary, &a.Outcome, &a.NextAction, &a.RecordedAt); err != nil {
			return nil, err
		}

		a.Type = models.ActivityType(typ)
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// newULID generates a ULID so activity ids sort by creation time.
func newULID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
