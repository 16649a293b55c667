// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, update_contact, and lead scoring tools
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

type ContactHandlers struct {
	db      *sql.DB
	manager *pipeline.Manager
}

func NewContactHandlers(database *sql.DB) *ContactHandlers {
	return &ContactHandlers{db: database, manager: pipeline.NewManager(database)}
}

type AddContactInput struct {
	Name    string   `json:"name" jsonschema:"Contact name (required)"`
	Email   string   `json:"email" jsonschema:"Email address (required, unique)"`
	Phone   string   `json:"phone,omitempty" jsonschema:"Phone number"`
	Company string   `json:"company,omitempty" jsonschema:"Company name"`
	Title   string   `json:"title,omitempty" jsonschema:"Job title"`
	Tags    []string `json:"tags,omitempty" jsonschema:"Freeform tags"`
	Status  string   `json:"status,omitempty" jsonschema:"Status: lead, prospect, customer, churned (default lead)"`
	Owner   string   `json:"owner,omitempty" jsonschema:"Owning salesperson"`
	Source  string   `json:"source,omitempty" jsonschema:"Acquisition source, e.g. linkedin, referral"`
}

type ContactOutput struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone,omitempty"`
	Company     string   `json:"company,omitempty"`
	Title       string   `json:"title,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	LeadScore   int      `json:"lead_score"`
	Status      string   `json:"status"`
	Owner       string   `json:"owner,omitempty"`
	Source      string   `json:"source,omitempty"`
	LastContact *string  `json:"last_contact,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

func (h *ContactHandlers) AddContact(_ context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.Name == "" {
		return nil, ContactOutput{}, fmt.Errorf("name is required")
	}
	if input.Email == "" {
		return nil, ContactOutput{}, fmt.Errorf("email is required")
	}

	status := models.StatusLead
	if input.Status != "" {
		status = models.ContactStatus(input.Status)
		if !models.ValidStatus(status) {
			return nil, ContactOutput{}, fmt.Errorf("invalid status: %s (valid: lead, prospect, customer, churned)", input.Status)
		}
	}

	existing, err := db.GetContactByEmail(h.db, input.Email)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ContactOutput{}, fmt.Errorf("contact with email %s already exists (id=%s)", input.Email, existing.ID)
	}

	contact := &models.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Title:   input.Title,
		Tags:    input.Tags,
		Status:  status,
		Owner:   input.Owner,
		Source:  input.Source,
	}

	if err := db.CreateContact(h.db, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type FindContactsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status"`
	Owner  string `json:"owner,omitempty" jsonschema:"Filter by owner"`
	Tag    string `json:"tag,omitempty" jsonschema:"Filter by tag"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 50)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Count    int             `json:"count"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	status := models.ContactStatus(input.Status)
	if input.Status != "" && !models.ValidStatus(status) {
		return nil, FindContactsOutput{}, fmt.Errorf("invalid status: %s", input.Status)
	}

	contacts, err := db.FindContacts(h.db, status, input.Owner, input.Tag, input.Limit)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	output := FindContactsOutput{Count: len(contacts)}
	for i := range contacts {
		output.Contacts = append(output.Contacts, contactToOutput(&contacts[i]))
	}

	return nil, output, nil
}

type UpdateContactInput struct {
	ID      string   `json:"id" jsonschema:"Contact ID (required)"`
	Name    string   `json:"name,omitempty" jsonschema:"Updated name"`
	Email   string   `json:"email,omitempty" jsonschema:"Updated email"`
	Phone   string   `json:"phone,omitempty" jsonschema:"Updated phone"`
	Company string   `json:"company,omitempty" jsonschema:"Updated company"`
	Title   string   `json:"title,omitempty" jsonschema:"Updated title"`
	Tags    []string `json:"tags,omitempty" jsonschema:"Replacement tag set"`
	Status  string   `json:"status,omitempty" jsonschema:"Updated status (explicit; never set automatically)"`
	Owner   string   `json:"owner,omitempty" jsonschema:"Updated owner"`
	Source  string   `json:"source,omitempty" jsonschema:"Updated source"`
}

func (h *ContactHandlers) UpdateContact(_ context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	contactID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	contact, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ContactOutput{}, fmt.Errorf("contact not found")
	}

	if input.Name != "" {
		contact.Name = input.Name
	}
	if input.Email != "" {
		contact.Email = input.Email
	}
	if input.Phone != "" {
		contact.Phone = input.Phone
	}
	if input.Company != "" {
		contact.Company = input.Company
	}
	if input.Title != "" {
		contact.Title = input.Title
	}
	if input.Tags != nil {
		contact.Tags = input.Tags
	}
	if input.Status != "" {
		status := models.ContactStatus(input.Status)
		if !models.ValidStatus(status) {
			return nil, ContactOutput{}, fmt.Errorf("invalid status: %s (valid: lead, prospect, customer, churned)", input.Status)
		}
		contact.Status = status
	}
	if input.Owner != "" {
		contact.Owner = input.Owner
	}
	if input.Source != "" {
		contact.Source = input.Source
	}

	if err := db.UpdateContact(h.db, contactID, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type UpdateLeadScoreInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	Delta     int    `json:"delta" jsonschema:"Score adjustment, positive or negative; result clamps to [0,100]"`
}

func (h *ContactHandlers) UpdateLeadScore(_ context.Context, request *mcp.CallToolRequest, input UpdateLeadScoreInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ContactID == "" {
		return nil, ContactOutput{}, fmt.Errorf("contact_id is required")
	}

	contactID, err := uuid.Parse(input.ContactID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	contact, err := h.manager.UpdateLeadScore(contactID, input.Delta)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update lead score: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type DeleteContactInput struct {
	ID string `json:"id" jsonschema:"Contact ID (required)"`
}

type DeleteContactOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ContactHandlers) DeleteContact(_ context.Context, request *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteContactOutput, error) {
	if input.ID == "" {
		return nil, DeleteContactOutput{}, fmt.Errorf("id is required")
	}

	contactID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	if err := db.DeleteContact(h.db, contactID); err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil, DeleteContactOutput{
		Success: true,
		Message: fmt.Sprintf("Contact %s deleted successfully", contactID),
	}, nil
}

func contactToOutput(contact *models.Contact) ContactOutput {
	output := ContactOutput{
		ID:        contact.ID.String(),
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Company:   contact.Company,
		Title:     contact.Title,
		Tags:      contact.Tags,
		LeadScore: contact.LeadScore,
		Status:    string(contact.Status),
		Owner:     contact.Owner,
		Source:    contact.Source,
		CreatedAt: contact.CreatedAt.Format(time.RFC3339),
	}

	if contact.LastContact != nil {
		lc := contact.LastContact.Format(time.RFC3339)
		output.LastContact = &lc
	}

	return output
}
