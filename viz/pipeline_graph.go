// ABOUTME: Pipeline graph generation
// ABOUTME: Renders the stage funnel as a graphviz DOT graph
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/blackroad/crm/analytics"
	"github.com/blackroad/crm/models"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// GeneratePipelineGraph renders the canonical stage funnel left to right
// with per-stage deal counts, splitting into won/lost terminals.
func (g *GraphGenerator) GeneratePipelineGraph() (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.LRRank)

	engine := analytics.NewEngine(g.db)
	funnel, err := engine.ConversionFunnel()
	if err != nil {
		return "", fmt.Errorf("failed to compute funnel: %w", err)
	}

	counts := make(map[models.Stage]int)
	for _, sc := range funnel.Stages {
		counts[sc.Stage] = sc.Count
	}

	nodes := make(map[models.Stage]*cgraph.Node)
	for _, stage := range models.Stages {
		label := fmt.Sprintf("%s\n%d deals", stage, counts[stage])
		node, err := graph.CreateNodeByName(string(stage))
		if err != nil {
			return "", fmt.Errorf("failed to create node: %w", err)
		}
		node.SetLabel(label)
		if stage.Terminal() {
			node.SetShape(cgraph.BoxShape)
		}
		nodes[stage] = node
	}

	// Edges follow the canonical (advisory) order; both terminals hang
	// off negotiation
	open := []models.Stage{models.StageProspecting, models.StageQualified, models.StageProposal, models.StageNegotiation}
	for i := 0; i < len(open)-1; i++ {
		if _, err := graph.CreateEdgeByName("", nodes[open[i]], nodes[open[i+1]]); err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
	}
	for _, terminal := range []models.Stage{models.StageClosedWon, models.StageClosedLost} {
		edge, err := graph.CreateEdgeByName("", nodes[models.StageNegotiation], nodes[terminal])
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetLabel(fmt.Sprintf("%d%%", terminal.DefaultProbability()))
	}

	// Generate DOT source
	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
