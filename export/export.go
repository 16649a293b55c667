// ABOUTME: CSV and JSON export of CRM records
// ABOUTME: Pure formatting over model slices, no database access
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blackroad/crm/models"
)

// ContactsCSV renders contacts as CSV with a header row. Tags are joined
// with "|" so the column stays a single cell.
func ContactsCSV(contacts []models.Contact) (string, error) {
	var out strings.Builder
	w := csv.NewWriter(&out)

	header := []string{"id", "name", "email", "phone", "company", "title", "tags", "lead_score", "status", "owner", "source", "last_contact", "created_at"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, c := range contacts {
		record := []string{
			c.ID.String(),
			c.Name,
			c.Email,
			c.Phone,
			c.Company,
			c.Title,
			strings.Join(c.Tags, "|"),
			strconv.Itoa(c.LeadScore),
			string(c.Status),
			c.Owner,
			c.Source,
			formatTimePtr(c.LastContact),
			c.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return out.String(), w.Error()
}

// DealsCSV renders deals as CSV with a header row. Values stay in cents.
func DealsCSV(deals []models.Deal) (string, error) {
	var out strings.Builder
	w := csv.NewWriter(&out)

	header := []string{"id", "contact_id", "title", "value", "stage", "probability", "close_date", "notes", "created_at", "updated_at"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, d := range deals {
		record := []string{
			d.ID.String(),
			d.ContactID.String(),
			d.Title,
			strconv.FormatInt(d.Value, 10),
			string(d.Stage),
			strconv.Itoa(d.Probability),
			formatTimePtr(d.CloseDate),
			d.Notes,
			d.CreatedAt.Format(time.RFC3339),
			d.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return out.String(), w.Error()
}

// ContactsJSON renders contacts as indented JSON.
func ContactsJSON(contacts []models.Contact) (string, error) {
	return marshalIndent(contacts)
}

// DealsJSON renders deals as indented JSON.
func DealsJSON(deals []models.Deal) (string, error) {
	return marshalIndent(deals)
}

func marshalIndent(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}
	return string(data), nil
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
