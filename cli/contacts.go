// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts and lead scores
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/blackroad/crm/db"
	"github.com/blackroad/crm/models"
	"github.com/blackroad/crm/pipeline"
)

// AddContactCommand adds a new contact.
func AddContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	email := fs.String("email", "", "Email address (required)")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	title := fs.String("title", "", "Job title")
	tags := fs.String("tags", "", "Comma-separated tags")
	status := fs.String("status", "lead", "Status (lead, prospect, customer, churned)")
	owner := fs.String("owner", "", "Owning salesperson")
	source := fs.String("source", "", "Acquisition source")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}
	if !models.ValidStatus(models.ContactStatus(*status)) {
		return fmt.Errorf("invalid status: %s", *status)
	}

	existing, err := db.GetContactByEmail(database, *email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("contact with email %s already exists (ID: %s)", *email, existing.ID)
	}

	contact := &models.Contact{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Company: *company,
		Title:   *title,
		Tags:    splitTags(*tags),
		Status:  models.ContactStatus(*status),
		Owner:   *owner,
		Source:  *source,
	}

	if err := db.CreateContact(database, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("✓ Contact created: %s (ID: %s)\n", contact.Name, contact.ID)
	if contact.Company != "" {
		fmt.Printf("  Company: %s\n", contact.Company)
	}
	fmt.Printf("  Status: %s\n", contact.Status)

	return nil
}

// ListContactsCommand lists contacts with optional filters.
func ListContactsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	status := fs.String("status", "", "Filter by status")
	owner := fs.String("owner", "", "Filter by owner")
	tag := fs.String("tag", "", "Filter by tag")
	limit := fs.Int("limit", 50, "Max results")
	_ = fs.Parse(args)

	if *status != "" && !models.ValidStatus(models.ContactStatus(*status)) {
		return fmt.Errorf("invalid status: %s", *status)
	}

	contacts, err := db.FindContacts(database, models.ContactStatus(*status), *owner, *tag, *limit)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOMPANY\tSTATUS\tSCORE\tOWNER")
	for _, c := range contacts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			c.ID, c.Name, c.Email, c.Company, c.Status, c.LeadScore, c.Owner)
	}
	return w.Flush()
}

// UpdateContactCommand updates an existing contact's fields.
func UpdateContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	title := fs.String("title", "", "Job title")
	tags := fs.String("tags", "", "Comma-separated tags (replaces existing)")
	status := fs.String("status", "", "Status (lead, prospect, customer, churned)")
	owner := fs.String("owner", "", "Owning salesperson")
	source := fs.String("source", "", "Acquisition source")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required (flags must come before the ID)")
	}

	contactID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid contact ID: %w", err)
	}

	contact, err := db.GetContact(database, contactID)
	if err != nil {
		return fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return fmt.Errorf("contact not found: %s", contactID)
	}

	if *name != "" {
		contact.Name = *name
	}
	if *email != "" {
		contact.Email = *email
	}
	if *phone != "" {
		contact.Phone = *phone
	}
	if *company != "" {
		contact.Company = *company
	}
	if *title != "" {
		contact.Title = *title
	}
	if *tags != "" {
		contact.Tags = splitTags(*tags)
	}
	if *status != "" {
		if !models.ValidStatus(models.ContactStatus(*status)) {
			return fmt.Errorf("invalid status: %s", *status)
		}
		contact.Status = models.ContactStatus(*status)
	}
	if *owner != "" {
		contact.Owner = *owner
	}
	if *source != "" {
		contact.Source = *source
	}

	if err := db.UpdateContact(database, contactID, contact); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	fmt.Printf("✓ Contact updated: %s\n", contact.Name)
	return nil
}

// DeleteContactCommand deletes a contact.
func DeleteContactCommand(database *sql.DB, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("contact ID is required")
	}

	contactID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid contact ID: %w", err)
	}

	if err := db.DeleteContact(database, contactID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	fmt.Printf("✓ Contact deleted: %s\n", contactID)
	return nil
}

// ScoreCommand adjusts a contact's lead score by a delta.
func ScoreCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	delta := fs.Int("delta", 0, "Score adjustment, positive or negative (required)")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required (flags must come before the ID)")
	}
	if *delta == 0 {
		return fmt.Errorf("--delta is required and must be non-zero")
	}

	contactID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid contact ID: %w", err)
	}

	manager := pipeline.NewManager(database)
	contact, err := manager.UpdateLeadScore(contactID, *delta)
	if err != nil {
		return fmt.Errorf("failed to update lead score: %w", err)
	}

	fmt.Printf("✓ %s lead score: %d\n", contact.Name, contact.LeadScore)
	return nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
