// ABOUTME: Customer MCP tool handlers
// ABOUTME: Implements add_customer, find_customers, update_customer and delete_customer tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

type CustomerHandlers struct {
	svc *crm.Service
}

func NewCustomerHandlers(svc *crm.Service) *CustomerHandlers {
	return &CustomerHandlers{svc: svc}
}

type AddCustomerInput struct {
	Name  string   `json:"name" jsonschema:"Customer name (required)"`
	Phone string   `json:"phone" jsonschema:"Phone number (required)"`
	Email string   `json:"email,omitempty" jsonschema:"Email address"`
	Type  string   `json:"type,omitempty" jsonschema:"Customer type: new, potential, permanent (Arabic labels accepted, default new)"`
	Tags  []string `json:"tags,omitempty" jsonschema:"Free-form tags"`
	Notes string   `json:"notes,omitempty" jsonschema:"Notes about the customer"`
}

type CustomerOutput struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email,omitempty"`
	Type        string   `json:"type"`
	Tags        []string `json:"tags"`
	Notes       string   `json:"notes,omitempty"`
	CreatedAt   string   `json:"created_at"`
	LastContact *string  `json:"last_contact,omitempty"`
	Warning     string   `json:"warning,omitempty"`
}

func (h *CustomerHandlers) AddCustomer(_ context.Context, request *mcp.CallToolRequest, input AddCustomerInput) (*mcp.CallToolResult, CustomerOutput, error) {
	draft := models.Customer{
		Name:  input.Name,
		Phone: input.Phone,
		Email: input.Email,
		Tags:  input.Tags,
		Notes: input.Notes,
	}
	if input.Type != "" {
		t, err := models.ParseCustomerType(input.Type)
		if err != nil {
			return nil, CustomerOutput{}, err
		}
		draft.Type = t
	}

	customer, err := h.svc.CreateCustomer(draft)
	warning, err := warnOrFail(err)
	if err != nil {
		return nil, CustomerOutput{}, fmt.Errorf("failed to create customer: %w", err)
	}

	out := customerToOutput(customer)
	out.Warning = warning
	return nil, out, nil
}

type FindCustomersInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search text matched against name, phone or email"`
	Type  string `json:"type,omitempty" jsonschema:"Filter by customer type"`
	Tag   string `json:"tag,omitempty" jsonschema:"Filter by tag"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type FindCustomersOutput struct {
	Customers []CustomerOutput `json:"customers"`
	Count     int              `json:"count"`
}

func (h *CustomerHandlers) FindCustomers(_ context.Context, request *mcp.CallToolRequest, input FindCustomersInput) (*mcp.CallToolResult, FindCustomersOutput, error) {
	filter := crm.CustomerFilter{Query: input.Query, Tag: input.Tag}
	if input.Type != "" {
		t, err := models.ParseCustomerType(input.Type)
		if err != nil {
			return nil, FindCustomersOutput{}, err
		}
		filter.Type = t
	}

	customers := h.svc.Customers(filter)
	limit := limitOf(input.Limit)
	out := FindCustomersOutput{Customers: make([]CustomerOutput, 0, len(customers)), Count: len(customers)}
	for i, c := range customers {
		if i == limit {
			break
		}
		out.Customers = append(out.Customers, customerToOutput(c))
	}
	return nil, out, nil
}

type UpdateCustomerInput struct {
	ID    string   `json:"id" jsonschema:"Customer ID (required)"`
	Name  string   `json:"name,omitempty" jsonschema:"Updated name"`
	Phone string   `json:"phone,omitempty" jsonschema:"Updated phone number"`
	Email string   `json:"email,omitempty" jsonschema:"Updated email address"`
	Type  string   `json:"type,omitempty" jsonschema:"Updated customer type"`
	Tags  []string `json:"tags,omitempty" jsonschema:"Replacement tag list"`
	Notes string   `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *CustomerHandlers) UpdateCustomer(_ context.Context, request *mcp.CallToolRequest, input UpdateCustomerInput) (*mcp.CallToolResult, CustomerOutput, error) {
	if input.ID == "" {
		return nil, CustomerOutput{}, fmt.Errorf("id is required")
	}
	customer, ok := h.svc.Customer(input.ID)
	if !ok {
		return nil, CustomerOutput{}, fmt.Errorf("customer not found")
	}

	if input.Name != "" {
		customer.Name = input.Name
	}
	if input.Phone != "" {
		customer.Phone = input.Phone
	}
	if input.Email != "" {
		customer.Email = input.Email
	}
	if input.Type != "" {
		t, err := models.ParseCustomerType(input.Type)
		if err != nil {
			return nil, CustomerOutput{}, err
		}
		customer.Type = t
	}
	if input.Tags != nil {
		customer.Tags = input.Tags
	}
	if input.Notes != "" {
		customer.Notes = input.Notes
	}

	updated, err := h.svc.UpdateCustomer(input.ID, customer)
	warning, err := warnOrFail(err)
	if err != nil {
		return nil, CustomerOutput{}, fmt.Errorf("failed to update customer: %w", err)
	}

	out := customerToOutput(updated)
	out.Warning = warning
	return nil, out, nil
}

type DeleteCustomerInput struct {
	ID string `json:"id" jsonschema:"Customer ID (required)"`
}

func (h *CustomerHandlers) DeleteCustomer(_ context.Context, request *mcp.CallToolRequest, input DeleteCustomerInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}

	warning, err := warnOrFail(h.svc.DeleteCustomer(input.ID))
	if err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete customer: %w", err)
	}

	msg := fmt.Sprintf("Customer %s deleted successfully", input.ID)
	if warning != "" {
		msg += " (" + warning + ")"
	}
	return nil, DeleteOutput{Success: true, Message: msg}, nil
}

func customerToOutput(c models.Customer) CustomerOutput {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return CustomerOutput{
		ID:          c.ID,
		Name:        c.Name,
		Phone:       c.Phone,
		Email:       c.Email,
		Type:        string(c.Type),
		Tags:        tags,
		Notes:       c.Notes,
		CreatedAt:   formatTime(c.CreatedAt),
		LastContact: formatOptionalTime(c.LastContact),
	}
}
