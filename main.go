// ABOUTME: Entry point for CRM MCP server and CLI
// ABOUTME: Routes to MCP server or CLI commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/blackroad/crm/cli"
	"github.com/blackroad/crm/db"
)

const version = "0.1.0"

func main() {
	// Optional .env overlay; ignore absence
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: $CRM_DB_PATH or ~/.local/share/crm/crm.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("crm version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	// Route to top-level command
	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "mcp":
		// MCP server doesn't need database init message
		finalDBPath := getDatabasePath(*dbPath)
		database, err := db.OpenDatabase(finalDBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		if err := cli.MCPCommand(database); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "crm":
		// CRM subcommands - initialize database with message
		finalDBPath := getDatabasePath(*dbPath)
		database, err := db.OpenDatabase(finalDBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		log.Printf("CRM database: %s", finalDBPath)

		// Handle init-only flag
		if *initOnly {
			log.Println("Database initialized successfully")
			os.Exit(0)
		}

		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		crmCommand := commandArgs[0]
		crmArgs := commandArgs[1:]

		switch crmCommand {
		// Contact commands
		case "add-contact":
			if err := cli.AddContactCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-contacts":
			if err := cli.ListContactsCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "update-contact":
			if err := cli.UpdateContactCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "delete-contact":
			if err := cli.DeleteContactCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "score":
			if err := cli.ScoreCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Deal commands
		case "add-deal":
			if err := cli.AddDealCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "advance-deal":
			if err := cli.AdvanceDealCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-deals":
			if err := cli.ListDealsCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Activity commands
		case "log-activity":
			if err := cli.LogActivityCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-activities":
			if err := cli.ListActivitiesCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Export commands
		case "export-contacts":
			if err := cli.ExportContactsCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "export-deals":
			if err := cli.ExportDealsCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		default:
			fmt.Printf("Unknown crm command: %s\n\n", crmCommand)
			printUsage()
			os.Exit(1)
		}

	case "viz":
		// Visualization subcommands
		finalDBPath := getDatabasePath(*dbPath)
		database, err := db.OpenDatabase(finalDBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		if len(commandArgs) == 0 {
			fmt.Println("Error: viz requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		vizCommand := commandArgs[0]
		vizArgs := commandArgs[1:]

		switch vizCommand {
		case "dashboard":
			if err := cli.VizDashboardCommand(database, vizArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		case "graph":
			if len(vizArgs) == 0 || vizArgs[0] != "pipeline" {
				fmt.Println("Error: viz graph requires a type (pipeline)")
				printUsage()
				os.Exit(1)
			}

			if err := cli.VizGraphPipelineCommand(database, vizArgs[1:]); err != nil {
				log.Fatalf("Error: %v", err)
			}

		default:
			fmt.Printf("Unknown viz command: %s\n\n", vizCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("CRM_DB_PATH"); env != "" {
		return env
	}
	return filepath.Join(xdg.DataHome, "crm", "crm.db")
}

func printUsage() {
	fmt.Printf(`crm v%s - Sales pipeline CRM

USAGE:
  crm [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: $CRM_DB_PATH or ~/.local/share/crm/crm.db)
  --init                 Initialize database and exit (use with 'crm')

COMMANDS:
  mcp                    Start MCP server for Claude Desktop
  crm                    CRM management commands
  viz                    Visualization commands

MCP SERVER:
  crm mcp                Start MCP server (for Claude Desktop integration)

CRM COMMANDS:
  crm crm add-contact       Add a new contact
    --name <name>             Contact name (required)
    --email <email>           Email address (required, unique)
    --phone <phone>           Phone number
    --company <company>       Company name
    --title <title>           Job title
    --tags <a,b>              Comma-separated tags
    --status <status>         lead, prospect, customer, churned (default: lead)
    --owner <owner>           Owning salesperson
    --source <source>         Acquisition source

  crm crm list-contacts     List contacts
    --status <status>         Filter by status
    --owner <owner>           Filter by owner
    --tag <tag>               Filter by tag
    --limit <n>               Max results (default: 50)

  crm crm update-contact [flags] <id>  Update an existing contact
    Note: flags must come before the contact ID

  crm crm delete-contact <id>  Delete a contact

  crm crm score --delta <n> <id>  Adjust a contact's lead score
    The result clamps to [0,100]

  crm crm add-deal          Add a new deal
    --contact <id>            Contact ID (required)
    --title <title>           Deal title (required)
    --value <cents>           Deal value in cents
    --stage <stage>           Stage (default: prospecting)
    --probability <p>         Probability override in [0,100]
    --close-date <date>       Expected close date (RFC3339)
    --notes <notes>           Freeform notes

  crm crm advance-deal --stage <stage> [--probability <p>] <id>
    Move a deal to a new stage; closed deals cannot move

  crm crm list-deals        List deals
    --contact <id>            Filter by contact ID
    --stage <stage>           Filter by stage
    --limit <n>               Max results (default: 50)

  crm crm log-activity      Record a sales activity
    --contact <id>            Contact ID (required)
    --type <type>             call, email, meeting, demo, follow_up (required)
    --summary <text>          What happened (required)
    --outcome <text>          Result of the activity
    --next-action <text>      Planned follow-up

  crm crm list-activities [--limit <n>] <contact-id>  List a contact's activities

  crm crm export-contacts   Export contacts
    --format <fmt>            csv or json (default: csv)
    --output <file>           Output file (default: stdout)

  crm crm export-deals      Export deals
    --format <fmt>            csv or json (default: csv)
    --output <file>           Output file (default: stdout)

VIZ COMMANDS:
  crm viz dashboard              Print the pipeline dashboard
  crm viz graph pipeline         Generate deal pipeline graph
    --output <file>               Output file (default: stdout)

EXAMPLES:
  # Start MCP server for Claude Desktop
  crm mcp

  # Add a contact and a deal
  crm crm add-contact --name "Alice Johnson" --email "alice@acme.com" --company "Acme Corp"
  crm crm add-deal --contact <id> --title "Enterprise License Q1" --value 15000000 --stage qualified

  # Advance the deal and inspect the pipeline
  crm crm advance-deal --stage negotiation <deal-id>
  crm viz dashboard

`, version)
}
