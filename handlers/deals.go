// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements create_deal, advance_deal, and find_deals tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/blackroad/crm/db"
	"github.com/blackroad/crm/models"
	"github.com/blackroad/crm/pipeline"
)

type DealHandlers struct {
	db      *sql.DB
	manager *pipeline.Manager
}

func NewDealHandlers(database *sql.DB) *DealHandlers {
	return &DealHandlers{db: database, manager: pipeline.NewManager(database)}
}

type CreateDealInput struct {
	ContactID   string `json:"contact_id" jsonschema:"Contact ID (required, must exist)"`
	Title       string `json:"title" jsonschema:"Deal title (required)"`
	Value       int64  `json:"value,omitempty" jsonschema:"Deal value in cents (non-negative)"`
	Stage       string `json:"stage,omitempty" jsonschema:"Stage: prospecting, qualified, proposal, negotiation, closed_won, closed_lost (default prospecting)"`
	Probability *int   `json:"probability,omitempty" jsonschema:"Probability override in [0,100]; otherwise the stage default applies"`
	CloseDate   string `json:"close_date,omitempty" jsonschema:"Expected close date in ISO 8601 format"`
	Notes       string `json:"notes,omitempty" jsonschema:"Freeform notes"`
}

type DealOutput struct {
	ID          string  `json:"id"`
	ContactID   string  `json:"contact_id"`
	Title       string  `json:"title"`
	Value       int64   `json:"value"`
	Stage       string  `json:"stage"`
	Probability int     `json:"probability"`
	CloseDate   *string `json:"close_date,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func (h *DealHandlers) CreateDeal(_ context.Context, request *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.ContactID == "" {
		return nil, DealOutput{}, fmt.Errorf("contact_id is required")
	}
	if input.Title == "" {
		return nil, DealOutput{}, fmt.Errorf("title is required")
	}

	contactID, err := uuid.Parse(input.ContactID)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	stage := models.StageProspecting
	if input.Stage != "" {
		stage, err = models.ParseStage(input.Stage)
		if err != nil {
			return nil, DealOutput{}, err
		}
	}

	params := pipeline.CreateDealParams{
		ContactID:   contactID,
		Title:       input.Title,
		Value:       input.Value,
		Stage:       stage,
		Probability: input.Probability,
		Notes:       input.Notes,
	}

	if input.CloseDate != "" {
		parsedTime, err := time.Parse(time.RFC3339, input.CloseDate)
		if err != nil {
			return nil, DealOutput{}, fmt.Errorf("invalid close_date format (use ISO 8601/RFC3339): %w", err)
		}
		params.CloseDate = &parsedTime
	}

	deal, err := h.manager.CreateDeal(params)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to create deal: %w", err)
	}

	return nil, dealToOutput(deal), nil
}

type AdvanceDealInput struct {
	DealID      string `json:"deal_id" jsonschema:"Deal ID (required)"`
	Stage       string `json:"stage" jsonschema:"Target stage (required); closed deals cannot move"`
	Probability *int   `json:"probability,omitempty" jsonschema:"Probability override in [0,100]; otherwise the stage default applies"`
}

func (h *DealHandlers) AdvanceDeal(_ context.Context, request *mcp.CallToolRequest, input AdvanceDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.DealID == "" {
		return nil, DealOutput{}, fmt.Errorf("deal_id is required")
	}
	if input.Stage == "" {
		return nil, DealOutput{}, fmt.Errorf("stage is required")
	}

	dealID, err := uuid.Parse(input.DealID)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("invalid deal_id: %w", err)
	}

	stage, err := models.ParseStage(input.Stage)
	if err != nil {
		return nil, DealOutput{}, err
	}

	deal, err := h.manager.AdvanceDeal(dealID, stage, input.Probability)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to advance deal: %w", err)
	}

	return nil, dealToOutput(deal), nil
}

type FindDealsInput struct {
	ContactID string `json:"contact_id,omitempty" jsonschema:"Filter by contact ID"`
	Stage     string `json:"stage,omitempty" jsonschema:"Filter by stage"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max results (default 50)"`
}

type FindDealsOutput struct {
	Deals []DealOutput `json:"deals"`
	Count int          `json:"count"`
}

func (h *DealHandlers) FindDeals(_ context.Context, request *mcp.CallToolRequest, input FindDealsInput) (*mcp.CallToolResult, FindDealsOutput, error) {
	var contactID *uuid.UUID
	if input.ContactID != "" {
		parsed, err := uuid.Parse(input.ContactID)
		if err != nil {
			return nil, FindDealsOutput{}, fmt.Errorf("invalid contact_id: %w", err)
		}
		contactID = &parsed
	}

	var stage models.Stage
	if input.Stage != "" {
		parsed, err := models.ParseStage(input.Stage)
		if err != nil {
			return nil, FindDealsOutput{}, err
		}
		stage = parsed
	}

	deals, err := db.FindDeals(h.db, contactID, stage, input.Limit)
	if err != nil {
		return nil, FindDealsOutput{}, fmt.Errorf("failed to find deals: %w", err)
	}

	output := FindDealsOutput{Count: len(deals)}
	for i := range deals {
		output.Deals = append(output.Deals, dealToOutput(&deals[i]))
	}

	return nil, output, nil
}

func dealToOutput(deal *models.Deal) DealOutput {
	output := DealOutput{
		ID:          deal.ID.String(),
		ContactID:   deal.ContactID.String(),
		Title:       deal.Title,
		Value:       deal.Value,
		Stage:       string(deal.Stage),
		Probability: deal.Probability,
		Notes:       deal.Notes,
		CreatedAt:   deal.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   deal.UpdatedAt.Format(time.RFC3339),
	}

	if deal.CloseDate != nil {
		cd := deal.CloseDate.Format(time.RFC3339)
		output.CloseDate = &cd
	}

	return output
}
