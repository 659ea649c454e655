// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Provides customer summary, pipeline analysis and follow-up prompts
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
)

// Prompts lists the prompt templates served by GetPrompt.
var Prompts = []*mcp.Prompt{
	{
		Name:        "customer-summary",
		Description: "Summarise a customer with their recent interactions, deals and open tasks",
		Arguments: []*mcp.PromptArgument{
			{Name: "customer_id", Description: "Customer ID", Required: true},
		},
	},
	{
		Name:        "deal-analysis",
		Description: "Analyse the deal pipeline and rejection reasons",
	},
	{
		Name:        "follow-up-suggestions",
		Description: "Suggest customers to contact based on last contact and open tasks",
	},
}

type PromptHandlers struct {
	svc *crm.Service
}

func NewPromptHandlers(svc *crm.Service) *PromptHandlers {
	return &PromptHandlers{svc: svc}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "customer-summary":
		return h.getCustomerSummaryPrompt(request.Params.Arguments)
	case "deal-analysis":
		return h.getDealAnalysisPrompt()
	case "follow-up-suggestions":
		return h.getFollowUpSuggestionsPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getCustomerSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	id, ok := args["customer_id"]
	if !ok || id == "" {
		return nil, fmt.Errorf("customer_id is required")
	}
	customer, ok := h.svc.Customer(id)
	if !ok {
		return nil, fmt.Errorf("customer not found")
	}
	loc := i18n.LocaleFor(h.svc.Settings())

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Customer: %s (%s)\n", customer.Name, loc.Label(customer.Type)))
	promptText.WriteString(fmt.Sprintf("Phone: %s\n", customer.Phone))
	if customer.Email != "" {
		promptText.WriteString(fmt.Sprintf("Email: %s\n", customer.Email))
	}
	if len(customer.Tags) > 0 {
		promptText.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(customer.Tags, ", ")))
	}
	if customer.LastContact != nil {
		promptText.WriteString(fmt.Sprintf("Last Contact: %s\n", customer.LastContact.Format("2006-01-02")))
	}

	interactions := h.svc.Interactions(crm.InteractionFilter{CustomerID: id})
	if len(interactions) > 0 {
		promptText.WriteString(fmt.Sprintf("\nInteractions (%d):\n", len(interactions)))
		for _, i := range interactions {
			promptText.WriteString(fmt.Sprintf("  - %s %s, %s: %s\n",
				i.Date.Format("2006-01-02"), i.Type, i.Outcome, i.Notes))
		}
	}

	deals := h.svc.Deals(crm.DealFilter{CustomerID: id})
	if len(deals) > 0 {
		promptText.WriteString(fmt.Sprintf("\nDeals (%d):\n", len(deals)))
		for _, d := range deals {
			promptText.WriteString(fmt.Sprintf("  - %s: %s, %s, %.0f%%\n", d.Title, loc.Money(d.Value), d.Status, d.Probability))
		}
	}

	tasks := h.svc.Tasks(crm.TaskFilter{CustomerID: id})
	open := 0
	for _, t := range tasks {
		if t.Status != models.TaskCompleted {
			open++
		}
	}
	if open > 0 {
		promptText.WriteString(fmt.Sprintf("\nOpen tasks: %d\n", open))
	}
	if customer.Notes != "" {
		promptText.WriteString(fmt.Sprintf("\nNotes: %s\n", customer.Notes))
	}

	promptText.WriteString("\nPlease analyze this customer and provide:")
	promptText.WriteString("\n1. A brief summary of the relationship")
	promptText.WriteString("\n2. Recommendations for next steps or follow-up actions")
	promptText.WriteString("\n3. Any patterns or insights from their interaction history")

	return userPrompt(fmt.Sprintf("Summary for customer: %s", customer.Name), promptText.String()), nil
}

func (h *PromptHandlers) getDealAnalysisPrompt() (*mcp.GetPromptResult, error) {
	snap := h.svc.Snapshot()
	loc := i18n.LocaleFor(snap.Settings)
	p := crm.Pipeline(snap.Deals)

	var promptText strings.Builder
	promptText.WriteString("Please analyze the current deal pipeline:\n\n")
	promptText.WriteString(fmt.Sprintf("Total Deals: %d\n", p.Total))
	promptText.WriteString(fmt.Sprintf("Ongoing: %d, Closed: %d, Rejected: %d\n", p.Ongoing, p.Closed, p.Rejected))
	promptText.WriteString(fmt.Sprintf("Expected Value: %s\n", loc.Money(p.WeightedValue)))
	promptText.WriteString(fmt.Sprintf("Closed Value: %s\n", loc.Money(p.ClosedValue)))
	promptText.WriteString(fmt.Sprintf("Close Rate: %s\n", i18n.FormatPercent(p.CloseRate(), models.LanguageEnglish)))

	if stats := crm.RejectionStats(snap.Deals, snap.RejectionReasons); len(stats) > 0 {
		promptText.WriteString("\nRejection Reasons:\n")
		for _, rc := range stats {
			promptText.WriteString(fmt.Sprintf("  - %s: %d\n", rc.Reason, rc.Count))
		}
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Analysis of pipeline health")
	promptText.WriteString("\n2. Recommendations for deals that may need attention")
	promptText.WriteString("\n3. Suggestions for reducing rejections")

	return userPrompt("Deal pipeline analysis", promptText.String()), nil
}

func (h *PromptHandlers) getFollowUpSuggestionsPrompt() (*mcp.GetPromptResult, error) {
	snap := h.svc.Snapshot()
	now := h.svc.Now()

	var promptText strings.Builder
	promptText.WriteString("Suggest which customers to follow up with.\n\n")
	promptText.WriteString("Customers by last contact:\n")
	for _, c := range snap.Customers {
		last := "never"
		if c.LastContact != nil {
			last = fmt.Sprintf("%d days ago", int(now.Sub(*c.LastContact).Hours()/24))
		}
		promptText.WriteString(fmt.Sprintf("  - %s (%s): %s\n", c.Name, c.Type, last))
	}

	if overdue := crm.Overdue(snap.Tasks, now); len(overdue) > 0 {
		promptText.WriteString(fmt.Sprintf("\nOverdue tasks (%d):\n", len(overdue)))
		for _, t := range crm.SortTasks(overdue, now) {
			promptText.WriteString(fmt.Sprintf("  - %s (due %s)\n", t.Title, t.DueDate.Format("2006-01-02")))
		}
	}

	promptText.WriteString("\nPrioritise potential customers and anyone with ongoing deals.")

	return userPrompt("Follow-up suggestions", promptText.String()), nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}
