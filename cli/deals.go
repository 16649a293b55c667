// ABOUTME: Deal CLI commands
// ABOUTME: Human-friendly commands for creating, advancing, and listing deals
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/blackroad/crm/db"
	"github.com/blackroad/crm/models"
	"github.com/blackroad/crm/pipeline"
)

// AddDealCommand creates a new deal for an existing contact.
func AddDealCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-deal", flag.ExitOnError)
	contactID := fs.String("contact", "", "Contact ID (required)")
	title := fs.String("title", "", "Deal title (required)")
	value := fs.Int64("value", 0, "Deal value in cents")
	stage := fs.String("stage", "prospecting", "Stage (prospecting, qualified, proposal, negotiation, closed_won, closed_lost)")
	probability := fs.Int("probability", -1, "Probability override in [0,100]; stage default when omitted")
	closeDate := fs.String("close-date", "", "Expected close date (RFC3339)")
	notes := fs.String("notes", "", "Freeform notes")
	_ = fs.Parse(args)

	if *contactID == "" {
		return fmt.Errorf("--contact is required")
	}
	if *title == "" {
		return fmt.Errorf("--title is required")
	}

	contactUUID, err := uuid.Parse(*contactID)
	if err != nil {
		return fmt.Errorf("invalid contact ID: %w", err)
	}

	parsedStage, err := models.ParseStage(*stage)
	if err != nil {
		return err
	}

	params := pipeline.CreateDealParams{
		ContactID: contactUUID,
		Title:     *title,
		Value:     *value,
		Stage:     parsedStage,
		Notes:     *notes,
	}

	if *probability >= 0 {
		params.Probability = probability
	}

	if *closeDate != "" {
		parsedTime, err := time.Parse(time.RFC3339, *closeDate)
		if err != nil {
			return fmt.Errorf("invalid close date (use RFC3339): %w", err)
		}
		params.CloseDate = &parsedTime
	}

	manager := pipeline.NewManager(database)
	deal, err := manager.CreateDeal(params)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}

	fmt.Printf("✓ Deal created: %s (ID: %s)\n", deal.Title, deal.ID)
	fmt.Printf("  Value: $%.2f\n", float64(deal.Value)/100.0)
	fmt.Printf("  Stage: %s (%d%%)\n", deal.Stage, deal.Probability)

	return nil
}

// AdvanceDealCommand moves a deal to a new stage.
func AdvanceDealCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("advance-deal", flag.ExitOnError)
	stage := fs.String("stage", "", "Target stage (required)")
	probability := fs.Int("probability", -1, "Probability override in [0,100]; stage default when omitted")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("deal ID is required (flags must come before the ID)")
	}
	if *stage == "" {
		return fmt.Errorf("--stage is required")
	}

	dealID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid deal ID: %w", err)
	}

	parsedStage, err := models.ParseStage(*stage)
	if err != nil {
		return err
	}

	var override *int
	if *probability >= 0 {
		override = probability
	}

	manager := pipeline.NewManager(database)
	deal, err := manager.AdvanceDeal(dealID, parsedStage, override)
	if err != nil {
		return fmt.Errorf("failed to advance deal: %w", err)
	}

	fmt.Printf("✓ Deal advanced: %s → %s (%d%%)\n", deal.Title, deal.Stage, deal.Probability)
	return nil
}

// ListDealsCommand lists deals with optional filters.
func ListDealsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-deals", flag.ExitOnError)
	contactID := fs.String("contact", "", "Filter by contact ID")
	stage := fs.String("stage", "", "Filter by stage")
	limit := fs.Int("limit", 50, "Max results")
	_ = fs.Parse(args)

	var contactUUID *uuid.UUID
	if *contactID != "" {
		parsed, err := uuid.Parse(*contactID)
		if err != nil {
			return fmt.Errorf("invalid contact ID: %w", err)
		}
		contactUUID = &parsed
	}

	var parsedStage models.Stage
	if *stage != "" {
		s, err := models.ParseStage(*stage)
		if err != nil {
			return err
		}
		parsedStage = s
	}

	deals, err := db.FindDeals(database, contactUUID, parsedStage, *limit)
	if err != nil {
		return fmt.Errorf("failed to list deals: %w", err)
	}

	if len(deals) == 0 {
		fmt.Println("No deals found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tVALUE\tSTAGE\tPROB\tWEIGHTED")
	for _, d := range deals {
		fmt.Fprintf(w, "%s\t%s\t$%.2f\t%s\t%d%%\t$%.2f\n",
			d.ID, d.Title, float64(d.Value)/100.0, d.Stage, d.Probability, d.WeightedValue()/100.0)
	}
	return w.Flush()
}
