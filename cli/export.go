// ABOUTME: Export CLI commands
// ABOUTME: Writes contacts and deals as CSV or JSON to stdout or a file
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/blackroad/crm/db"
	"github.com/blackroad/crm/export"
	"github.com/blackroad/crm/models"
)

// ExportContactsCommand exports all contacts as CSV or JSON.
func ExportContactsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("export-contacts", flag.ExitOnError)
	format := fs.String("format", "csv", "Output format: csv or json")
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	contacts, err := db.FindContacts(database, "", "", "", 10000)
	if err != nil {
		return fmt.Errorf("failed to fetch contacts: %w", err)
	}

	var rendered string
	switch *format {
	case "csv":
		rendered, err = export.ContactsCSV(contacts)
	case "json":
		rendered, err = export.ContactsJSON(contacts)
	default:
		return fmt.Errorf("unknown format: %s (valid: csv, json)", *format)
	}
	if err != nil {
		return fmt.Errorf("failed to render export: %w", err)
	}

	return writeExport(*output, rendered, len(contacts), "contacts")
}

// ExportDealsCommand exports all deals as CSV or JSON.
func ExportDealsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("export-deals", flag.ExitOnError)
	format := fs.String("format", "csv", "Output format: csv or json")
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	deals, err := db.FindDeals(database, nil, models.Stage(""), 10000)
	if err != nil {
		return fmt.Errorf("failed to fetch deals: %w", err)
	}

	var rendered string
	switch *format {
	case "csv":
		rendered, err = export.DealsCSV(deals)
	case "json":
		rendered, err = export.DealsJSON(deals)
	default:
		return fmt.Errorf("unknown format: %s (valid: csv, json)", *format)
	}
	if err != nil {
		return fmt.Errorf("failed to render export: %w", err)
	}

	return writeExport(*output, rendered, len(deals), "deals")
}

func writeExport(path, rendered string, count int, entity string) error {
	if path == "" {
		fmt.Print(rendered)
		return nil
	}

	if err := os.WriteFile(path, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("✓ Exported %d %s to %s\n", count, entity, path)
	return nil
}
