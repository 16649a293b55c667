// ABOUTME: Activity MCP tool handlers
// ABOUTME: Implements log_activity and list_activities tools
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
)

type ActivityHandlers struct {
	db *sql.DB
}

func NewActivityHandlers(database *sql.DB) *ActivityHandlers {
	return &ActivityHandlers{db: database}
}

type LogActivityInput struct {
	ContactID  string `json:"contact_id" jsonschema:"Contact ID (required, must exist)"`
	Type       string `json:"type" jsonschema:"Activity type: call, email, meeting, demo, follow_up (required)"`
	Summary    string `json:"summary" jsonschema:"What happened (required)"`
	Outcome    string `json:"outcome,omitempty" jsonschema:"Result of the activity"`
	NextAction string `json:"next_action,omitempty" jsonschema:"Planned follow-up"`
}

type ActivityOutput struct {
	ID         string `json:"id"`
	ContactID  string `json:"contact_id"`
	Type       string `json:"type"`
	Summary    string `json:"summary"`
	Outcome    string `json:"outcome,omitempty"`
	NextAction string `json:"next_action,omitempty"`
	RecordedAt string `json:"recorded_at"`
}

func (h *ActivityHandlers) LogActivity(_ context.Context, request *mcp.CallToolRequest, input LogActivityInput) (*mcp.CallToolResult, ActivityOutput, error) {
	if input.ContactID == "" {
		return nil, ActivityOutput{}, fmt.Errorf("contact_id is required")
	}
	if input.Summary == "" {
		return nil, ActivityOutput{}, fmt.Errorf("summary is required")
	}

	activityType := models.ActivityType(input.Type)
	if !models.ValidActivityType(activityType) {
		return nil, ActivityOutput{}, fmt.Errorf("invalid type: %s (valid: call, email, meeting, demo, follow_up)", input.Type)
	}

	contactID, err := uuid.Parse(input.ContactID)
	if err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	contact, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ActivityOutput{}, fmt.Errorf("contact not found")
	}

	activity := &models.Activity{
		ContactID:  contactID,
		Type:       activityType,
		Summary:    input.Summary,
		Outcome:    input.Outcome,
		NextAction: input.NextAction,
	}

	if err := db.LogActivity(h.db, activity); err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}

	return nil, activityToOutput(activity), nil
}

type ListActivitiesInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max results (default 50)"`
}

type ListActivitiesOutput struct {
	Activities []ActivityOutput `json:"activities"`
	Count      int              `json:"count"`
}

func (h *ActivityHandlers) ListActivities(_ context.Context, request *mcp.CallToolRequest, input ListActivitiesInput) (*mcp.CallToolResult, ListActivitiesOutput, error) {
	if input.ContactID == "" {
		return nil, ListActivitiesOutput{}, fmt.Errorf("contact_id is required")
	}

	contactID, err := uuid.Parse(input.ContactID)
	if err != nil {
		return nil, ListActivitiesOutput{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	activities, err := db.ListActivities(h.db, contactID, input.Limit)
	if err != nil {
		return nil, ListActivitiesOutput{}, fmt.Errorf("failed to list activities: %w", err)
	}

	output := ListActivitiesOutput{Count: len(activities)}
	for i := range activities {
		output.Activities = append(output.Activities, activityToOutput(&activities[i]))
	}

	return nil, output, nil
}

func activityToOutput(activity *models.Activity) ActivityOutput {
	return ActivityOutput{
		ID:         activity.ID,
		ContactID:  activity.ContactID.String(),
		Type:       string(activity.Type),
		Summary:    activity.Summary,
		Outcome:    activity.Outcome,
		NextAction: activity.NextAction,
		RecordedAt: activity.RecordedAt.Format(time.RFC3339),
	}
}
