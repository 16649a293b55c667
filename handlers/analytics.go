// ABOUTME: Analytics MCP tool handlers
// ABOUTME: Read-only pipeline_value, conversion_funnel, win_rate, and activity_summary tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/blackroad/crm/analytics"
)

type AnalyticsHandlers struct {
	engine *analytics.Engine
}

func NewAnalyticsHandlers(database *sql.DB) *AnalyticsHandlers {
	return &AnalyticsHandlers{engine: analytics.NewEngine(database)}
}

type EmptyInput struct{}

type PipelineValueOutput struct {
	OpenCount     int     `json:"open_count"`
	TotalValue    int64   `json:"total_value"`
	WeightedValue float64 `json:"weighted_value"`
}

func (h *AnalyticsHandlers) PipelineValue(_ context.Context, request *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, PipelineValueOutput, error) {
	report, err := h.engine.PipelineValue()
	if err != nil {
		return nil, PipelineValueOutput{}, fmt.Errorf("failed to compute pipeline value: %w", err)
	}

	return nil, PipelineValueOutput{
		OpenCount:     report.OpenCount,
		TotalValue:    report.TotalValue,
		WeightedValue: report.WeightedValue,
	}, nil
}

type FunnelOutput struct {
	Stages map[string]int `json:"stages"`
	Won    int            `json:"won"`
	Lost   int            `json:"lost"`
}

func (h *AnalyticsHandlers) ConversionFunnel(_ context.Context, request *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, FunnelOutput, error) {
	funnel, err := h.engine.ConversionFunnel()
	if err != nil {
		return nil, FunnelOutput{}, fmt.Errorf("failed to compute funnel: %w", err)
	}

	output := FunnelOutput{
		Stages: make(map[string]int),
		Won:    funnel.Won,
		Lost:   funnel.Lost,
	}
	for _, sc := range funnel.Stages {
		output.Stages[string(sc.Stage)] = sc.Count
	}

	return nil, output, nil
}

type WinRateOutput struct {
	WinRate float64 `json:"win_rate"`
}

func (h *AnalyticsHandlers) WinRate(_ context.Context, request *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, WinRateOutput, error) {
	rate, err := h.engine.WinRate()
	if err != nil {
		return nil, WinRateOutput{}, fmt.Errorf("failed to compute win rate: %w", err)
	}

	return nil, WinRateOutput{WinRate: rate}, nil
}

type ActivitySummaryOutput struct {
	ByType map[string]int `json:"by_type"`
	Total  int            `json:"total"`
}

func (h *AnalyticsHandlers) ActivitySummary(_ context.Context, request *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ActivitySummaryOutput, error) {
	summary, err := h.engine.ActivitySummary()
	if err != nil {
		return nil, ActivitySummaryOutput{}, fmt.Errorf("failed to summarize activities: %w", err)
	}

	output := ActivitySummaryOutput{
		ByType: make(map[string]int),
		Total:  summary.Total,
	}
	for typ, count := range summary.ByType {
		output.ByType[string(typ)] = count
	}

	return nil, output, nil
}
