// ABOUTME: Interaction MCP tool handlers
// ABOUTME: Implements log_interaction and find_interactions tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

type InteractionHandlers struct {
	svc *crm.Service
}

func NewInteractionHandlers(svc *crm.Service) *InteractionHandlers {
	return &InteractionHandlers{svc: svc}
}

type LogInteractionInput struct {
	CustomerID   string `json:"customer_id,omitempty" jsonschema:"Customer ID (this or customer_name is required)"`
	CustomerName string `json:"customer_name,omitempty" jsonschema:"Exact customer name, used when customer_id is empty"`
	Type         string `json:"type,omitempty" jsonschema:"Interaction type: call, meeting, email, message (default call)"`
	Date         string `json:"date,omitempty" jsonschema:"When it happened, ISO 8601 or YYYY-MM-DD (default now)"`
	Duration     *int   `json:"duration,omitempty" jsonschema:"Duration in minutes"`
	Outcome      string `json:"outcome,omitempty" jsonschema:"Outcome: positive, neutral, negative (default neutral)"`
	Notes        string `json:"notes,omitempty" jsonschema:"What was discussed"`
	NextAction   string `json:"next_action,omitempty" jsonschema:"Agreed next step"`
}

type InteractionOutput struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Type         string `json:"type"`
	Date         string `json:"date"`
	Duration     *int   `json:"duration,omitempty"`
	Outcome      string `json:"outcome"`
	Notes        string `json:"notes,omitempty"`
	NextAction   string `json:"next_action,omitempty"`
	Warning      string `json:"warning,omitempty"`
}

func (h *InteractionHandlers) LogInteraction(_ context.Context, request *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, InteractionOutput, error) {
	customerID, err := resolveCustomer(h.svc, input.CustomerID, input.CustomerName)
	if err != nil {
		return nil, InteractionOutput{}, err
	}

	date, err := parseDate("date", input.Date, h.svc.Now())
	if err != nil {
		return nil, InteractionOutput{}, err
	}

	draft := models.Interaction{
		CustomerID: customerID,
		Date:       date,
		Duration:   input.Duration,
		Notes:      input.Notes,
		NextAction: input.NextAction,
	}
	if input.Type != "" {
		if draft.Type, err = models.ParseInteractionType(input.Type); err != nil {
			return nil, InteractionOutput{}, err
		}
	}
	if input.Outcome != "" {
		if draft.Outcome, err = models.ParseOutcome(input.Outcome); err != nil {
			return nil, InteractionOutput{}, err
		}
	}

	interaction, err := h.svc.CreateInteraction(draft)
	warning, err := warnOrFail(err)
	if err != nil {
		return nil, InteractionOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}

	out := h.toOutput(interaction)
	out.Warning = warning
	return nil, out, nil
}

type FindInteractionsInput struct {
	CustomerID string `json:"customer_id,omitempty" jsonschema:"Filter by customer ID"`
	Type       string `json:"type,omitempty" jsonschema:"Filter by interaction type"`
	Outcome    string `json:"outcome,omitempty" jsonschema:"Filter by outcome (English or Arabic label)"`
	From       string `json:"from,omitempty" jsonschema:"Earliest day, inclusive (YYYY-MM-DD)"`
	To         string `json:"to,omitempty" jsonschema:"Latest day, inclusive (YYYY-MM-DD)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type FindInteractionsOutput struct {
	Interactions []InteractionOutput `json:"interactions"`
	Count        int                 `json:"count"`
}

func (h *InteractionHandlers) FindInteractions(_ context.Context, request *mcp.CallToolRequest, input FindInteractionsInput) (*mcp.CallToolResult, FindInteractionsOutput, error) {
	filter := crm.InteractionFilter{CustomerID: input.CustomerID}
	var err error
	if input.Type != "" {
		if filter.Type, err = models.ParseInteractionType(input.Type); err != nil {
			return nil, FindInteractionsOutput{}, err
		}
	}
	if input.Outcome != "" {
		if filter.Outcome, err = models.ParseOutcome(input.Outcome); err != nil {
			return nil, FindInteractionsOutput{}, err
		}
	}
	if filter.Range.From, err = parseDate("from", input.From, filter.Range.From); err != nil {
		return nil, FindInteractionsOutput{}, err
	}
	if filter.Range.To, err = parseDate("to", input.To, filter.Range.To); err != nil {
		return nil, FindInteractionsOutput{}, err
	}

	interactions := h.svc.Interactions(filter)
	limit := limitOf(input.Limit)
	out := FindInteractionsOutput{Interactions: make([]InteractionOutput, 0, len(interactions)), Count: len(interactions)}
	for i, it := range interactions {
		if i == limit {
			break
		}
		out.Interactions = append(out.Interactions, h.toOutput(it))
	}
	return nil, out, nil
}

func (h *InteractionHandlers) toOutput(i models.Interaction) InteractionOutput {
	return InteractionOutput{
		ID:           i.ID,
		CustomerID:   i.CustomerID,
		CustomerName: customerLabel(h.svc, i.CustomerID),
		Type:         string(i.Type),
		Date:         formatTime(i.Date),
		Duration:     i.Duration,
		Outcome:      string(i.Outcome),
		Notes:        i.Notes,
		NextAction:   i.NextAction,
	}
}
