// ABOUTME: Activity CLI commands
// ABOUTME: Human-friendly commands for logging and listing sales activities
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/blackroad/crm/db"
	"github.com/blackroad/crm/models"
)

// LogActivityCommand records a sales activity against a contact.
func LogActivityCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("log-activity", flag.ExitOnError)
	contactID := fs.String("contact", "", "Contact ID (required)")
	activityType := fs.String("type", "", "Type: call, email, meeting, demo, follow_up (required)")
	summary := fs.String("summary", "", "What happened (required)")
	outcome := fs.String("outcome", "", "Result of the activity")
	nextAction := fs.String("next-action", "", "Planned follow-up")
	_ = fs.Parse(args)

	if *contactID == "" {
		return fmt.Errorf("--contact is required")
	}
	if *summary == "" {
		return fmt.Errorf("--summary is required")
	}
	if !models.ValidActivityType(models.ActivityType(*activityType)) {
		return fmt.Errorf("invalid type: %s (valid: call, email, meeting, demo, follow_up)", *activityType)
	}

	contactUUID, err := uuid.Parse(*contactID)
	if err != nil {
		return fmt.Errorf("invalid contact ID: %w", err)
	}

	contact, err := db.GetContact(database, contactUUID)
	if err != nil {
		return fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return fmt.Errorf("contact not found: %s", contactUUID)
	}

	activity := &models.Activity{
		ContactID:  contactUUID,
		Type:       models.ActivityType(*activityType),
		Summary:    *summary,
		Outcome:    *outcome,
		NextAction: *nextAction,
	}

	if err := db.LogActivity(database, activity); err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	fmt.Printf("✓ Activity logged: %s with %s (ID: %s)\n", activity.Type, contact.Name, activity.ID)
	return nil
}

// ListActivitiesCommand lists a contact's activities, newest first.
func ListActivitiesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-activities", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Max results")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required (flags must come before the ID)")
	}

	contactID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid contact ID: %w", err)
	}

	activities, err := db.ListActivities(database, contactID, *limit)
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	if len(activities) == 0 {
		fmt.Println("No activities found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tTYPE\tSUMMARY\tOUTCOME\tNEXT ACTION")
	for _, a := range activities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.RecordedAt.Format("2006-01-02 15:04"), a.Type, a.Summary, a.Outcome, a.NextAction)
	}
	return w.Flush()
}
