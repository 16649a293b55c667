// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server exposing CRM tools over stdio
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/blackroad/crm/handlers"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(db *sql.DB) error {
	log.Println("Starting CRM MCP Server...")

	// Create handlers
	contactHandlers := handlers.NewContactHandlers(db)
	dealHandlers := handlers.NewDealHandlers(db)
	activityHandlers := handlers.NewActivityHandlers(db)
	analyticsHandlers := handlers.NewAnalyticsHandlers(db)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "crm",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact to the CRM",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "List contacts filtered by status, owner, or tag",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact's fields, status included",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_lead_score",
		Description: "Adjust a contact's lead score by a delta; the result clamps to [0,100]",
	}, contactHandlers.UpdateLeadScore)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a deal for an existing contact; probability defaults from the stage",
	}, dealHandlers.CreateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "advance_deal",
		Description: "Move a deal to a new stage; closed deals cannot move again",
	}, dealHandlers.AdvanceDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_deals",
		Description: "List deals filtered by contact or stage",
	}, dealHandlers.FindDeals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_activity",
		Description: "Record a sales activity (call, email, meeting, demo, follow_up) against a contact",
	}, activityHandlers.LogActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_activities",
		Description: "List a contact's activities, newest first",
	}, activityHandlers.ListActivities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_value",
		Description: "Total and probability-weighted value of open deals",
	}, analyticsHandlers.PipelineValue)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "conversion_funnel",
		Description: "Snapshot counts of deals per stage plus win/loss totals",
	}, analyticsHandlers.ConversionFunnel)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "win_rate",
		Description: "Won deals as a fraction of all closed deals",
	}, analyticsHandlers.WinRate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "activity_summary",
		Description: "Activity counts grouped by type",
	}, analyticsHandlers.ActivitySummary)

	// Run server on stdio
	log.Println("CRM MCP Server running on stdio")
	return server.Run(context.Background(), &mcp.StdioTransport{})
}
