// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides a styled pipeline overview for CRM reports
package viz

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blackroad/crm/analytics"
	"github.com/blackroad/crm/db"
	"github.com/blackroad/crm/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type DashboardStats struct {
	Pipeline *analytics.PipelineValue
	Funnel   *analytics.Funnel
	WinRate  float64

	Contacts    *analytics.ContactFunnel
	Activities  *analytics.ActivitySummary
	TopContacts []models.Contact
}

func GenerateDashboardStats(database *sql.DB) (*DashboardStats, error) {
	engine := analytics.NewEngine(database)

	pipeline, err := engine.PipelineValue()
	if err != nil {
		return nil, fmt.Errorf("failed to compute pipeline value: %w", err)
	}

	funnel, err := engine.ConversionFunnel()
	if err != nil {
		return nil, fmt.Errorf("failed to compute funnel: %w", err)
	}

	winRate, err := engine.WinRate()
	if err != nil {
		return nil, fmt.Errorf("failed to compute win rate: %w", err)
	}

	contacts, err := engine.ContactFunnel()
	if err != nil {
		return nil, fmt.Errorf("failed to compute contact funnel: %w", err)
	}

	activities, err := engine.ActivitySummary()
	if err != nil {
		return nil, fmt.Errorf("failed to summarize activities: %w", err)
	}

	topContacts, err := db.TopContactsByScore(database, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top contacts: %w", err)
	}

	return &DashboardStats{
		Pipeline:    pipeline,
		Funnel:      funnel,
		WinRate:     winRate,
		Contacts:    contacts,
		Activities:  activities,
		TopContacts: topContacts,
	}, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString(titleStyle.Render("CRM PIPELINE DASHBOARD"))
	out.WriteString("\n\n")

	// Pipeline forecast
	out.WriteString(sectionStyle.Render("PIPELINE"))
	out.WriteString("\n")
	out.WriteString(fmt.Sprintf("  Open deals:     %d\n", stats.Pipeline.OpenCount))
	out.WriteString(fmt.Sprintf("  Total value:    $%.2f\n", float64(stats.Pipeline.TotalValue)/100.0))
	out.WriteString(fmt.Sprintf("  Weighted value: $%.2f\n\n", stats.Pipeline.WeightedValue/100.0))

	// Funnel
	out.WriteString(sectionStyle.Render("FUNNEL"))
	out.WriteString("\n")
	renderFunnel(&out, stats.Funnel)
	out.WriteString(fmt.Sprintf("  Won %d / Lost %d (win rate %.0f%%)\n\n",
		stats.Funnel.Won, stats.Funnel.Lost, stats.WinRate*100))

	// Contact book
	out.WriteString(sectionStyle.Render("CONTACTS"))
	out.WriteString("\n")
	out.WriteString(fmt.Sprintf("  %d total: %d leads, %d prospects, %d customers, %d churned\n",
		stats.Contacts.TotalContacts, stats.Contacts.Leads, stats.Contacts.Prospects,
		stats.Contacts.Customers, stats.Contacts.Churned))
	out.WriteString(fmt.Sprintf("  Conversion: lead>prospect %.0f%%, prospect>customer %.0f%%, overall %.0f%%\n\n",
		stats.Contacts.LeadToProspectRate*100, stats.Contacts.ProspectToCustomer*100,
		stats.Contacts.OverallConversionRate*100))

	// Activity
	out.WriteString(sectionStyle.Render("ACTIVITY"))
	out.WriteString("\n")
	if stats.Activities.Total == 0 {
		out.WriteString(mutedStyle.Render("  No activities logged"))
		out.WriteString("\n")
	} else {
		for _, typ := range models.ActivityTypes {
			count := stats.Activities.ByType[typ]
			if count == 0 {
				continue
			}
			out.WriteString(fmt.Sprintf("  %-10s %d\n", typ, count))
		}
		out.WriteString(fmt.Sprintf("  %-10s %d\n", "total", stats.Activities.Total))
	}
	out.WriteString("\n")

	// Top contacts by lead score
	if len(stats.TopContacts) > 0 {
		out.WriteString(sectionStyle.Render("TOP CONTACTS"))
		out.WriteString("\n")
		for _, c := range stats.TopContacts {
			out.WriteString(fmt.Sprintf("  %3d  %s", c.LeadScore, c.Name))
			if c.Company != "" {
				out.WriteString(mutedStyle.Render(" (" + c.Company + ")"))
			}
			out.WriteString("\n")
		}
	}

	return out.String()
}

func renderFunnel(out *strings.Builder, funnel *analytics.Funnel) {
	// Find max count for scaling
	maxCount := 0
	for _, sc := range funnel.Stages {
		if sc.Count > maxCount {
			maxCount = sc.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, sc := range funnel.Stages {
		// Calculate bar length (0-10 blocks)
		barLength := (sc.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-13s %s  %2d\n", sc.Stage, bar, sc.Count))
	}
}
