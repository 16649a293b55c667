// ABOUTME: Visualization CLI commands
// ABOUTME: Handles viz dashboard and pipeline graph commands
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/blackroad/crm/viz"
)

// VizDashboardCommand prints the pipeline dashboard.
func VizDashboardCommand(db *sql.DB, args []string) error {
	stats, err := viz.GenerateDashboardStats(db)
	if err != nil {
		return err
	}

	fmt.Println(viz.RenderDashboard(stats))
	return nil
}

// VizGraphPipelineCommand generates a deal pipeline graph.
func VizGraphPipelineCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz graph pipeline", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	generator := viz.NewGraphGenerator(db)

	dot, err := generator.GeneratePipelineGraph()
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}
