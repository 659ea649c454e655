// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements create_deal, update_deal, find_deals and pipeline_summary tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
)

type DealHandlers struct {
	svc *crm.Service
}

func NewDealHandlers(svc *crm.Service) *DealHandlers {
	return &DealHandlers{svc: svc}
}

type CreateDealInput struct {
	Title             string   `json:"title" jsonschema:"Deal title (required)"`
	CustomerID        string   `json:"customer_id,omitempty" jsonschema:"Customer ID (this or customer_name is required)"`
	CustomerName      string   `json:"customer_name,omitempty" jsonschema:"Exact customer name, used when customer_id is empty"`
	Value             float64  `json:"value,omitempty" jsonschema:"Deal value in the configured currency"`
	Probability       *float64 `json:"probability,omitempty" jsonschema:"Success probability 0-100 (default 50)"`
	Status            string   `json:"status,omitempty" jsonschema:"Deal status: ongoing, closed, rejected (default ongoing)"`
	ExpectedCloseDate string   `json:"expected_close_date" jsonschema:"Expected close date, ISO 8601 or YYYY-MM-DD (required)"`
	Notes             string   `json:"notes,omitempty" jsonschema:"Notes about the deal"`
	RejectionReason   string   `json:"rejection_reason,omitempty" jsonschema:"Why the deal was rejected"`
}

type DealOutput struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	CustomerID        string  `json:"customer_id"`
	CustomerName      string  `json:"customer_name"`
	Value             float64 `json:"value"`
	ValueText         string  `json:"value_text"`
	Probability       float64 `json:"probability"`
	WeightedValue     float64 `json:"weighted_value"`
	Status            string  `json:"status"`
	ExpectedCloseDate string  `json:"expected_close_date"`
	CreatedAt         string  `json:"created_at"`
	Notes             string  `json:"notes,omitempty"`
	RejectionReason   string  `json:"rejection_reason,omitempty"`
	Warning           string  `json:"warning,omitempty"`
}

func (h *DealHandlers) CreateDeal(_ context.Context, request *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.Title == "" {
		return nil, DealOutput{}, fmt.Errorf("title is required")
	}
	customerID, err := resolveCustomer(h.svc, input.CustomerID, input.CustomerName)
	if err != nil {
		return nil, DealOutput{}, err
	}
	if input.ExpectedCloseDate == "" {
		return nil, DealOutput{}, fmt.Errorf("expected_close_date is required")
	}
	closeDate, err := parseDate("expected_close_date", input.ExpectedCloseDate, h.svc.Now())
	if err != nil {
		return nil, DealOutput{}, err
	}

	draft := models.Deal{
		Title:             input.Title,
		CustomerID:        customerID,
		Value:             input.Value,
		Probability:       models.DefaultProbability,
		ExpectedCloseDate: closeDate,
		Notes:             input.Notes,
		RejectionReason:   input.RejectionReason,
	}
	if input.Probability != nil {
		draft.Probability = *input.Probability
	}
	if input.Status != "" {
		if draft.Status, err = models.ParseDealStatus(input.Status); err != nil {
			return nil, DealOutput{}, err
		}
	}

	deal, err := h.svc.CreateDeal(draft)
	warning, err := warnOrFail(err)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to create deal: %w", err)
	}

	out := h.toOutput(deal)
	out.Warning = warning
	return nil, out, nil
}

type UpdateDealInput struct {
	ID                string   `json:"id" jsonschema:"Deal ID (required)"`
	Title             string   `json:"title,omitempty" jsonschema:"Updated deal title"`
	Value             *float64 `json:"value,omitempty" jsonschema:"Updated deal value"`
	Probability       *float64 `json:"probability,omitempty" jsonschema:"Updated success probability 0-100"`
	Status            string   `json:"status,omitempty" jsonschema:"Updated deal status"`
	ExpectedCloseDate string   `json:"expected_close_date,omitempty" jsonschema:"Updated expected close date"`
	Notes             string   `json:"notes,omitempty" jsonschema:"Updated notes"`
	RejectionReason   string   `json:"rejection_reason,omitempty" jsonschema:"Why the deal was rejected"`
}

func (h *DealHandlers) UpdateDeal(_ context.Context, request *mcp.CallToolRequest, input UpdateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.ID == "" {
		return nil, DealOutput{}, fmt.Errorf("id is required")
	}
	deal, ok := h.svc.Deal(input.ID)
	if !ok {
		return nil, DealOutput{}, fmt.Errorf("deal not found")
	}

	var err error
	if input.Title != "" {
		deal.Title = input.Title
	}
	if input.Value != nil {
		deal.Value = *input.Value
	}
	if input.Probability != nil {
		deal.Probability = *input.Probability
	}
	if input.Status != "" {
		if deal.Status, err = models.ParseDealStatus(input.Status); err != nil {
			return nil, DealOutput{}, err
		}
	}
	if input.ExpectedCloseDate != "" {
		if deal.ExpectedCloseDate, err = parseDate("expected_close_date", input.ExpectedCloseDate, deal.ExpectedCloseDate); err != nil {
			return nil, DealOutput{}, err
		}
	}
	if input.Notes != "" {
		deal.Notes = input.Notes
	}
	if input.RejectionReason != "" {
		deal.RejectionReason = input.RejectionReason
	}

	updated, err := h.svc.UpdateDeal(input.ID, deal)
	warning, err := warnOrFail(err)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to update deal: %w", err)
	}

	out := h.toOutput(updated)
	out.Warning = warning
	return nil, out, nil
}

type FindDealsInput struct {
	Query      string `json:"query,omitempty" jsonschema:"Search text matched against the title"`
	Status     string `json:"status,omitempty" jsonschema:"Filter by deal status"`
	CustomerID string `json:"customer_id,omitempty" jsonschema:"Filter by customer ID"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type FindDealsOutput struct {
	Deals []DealOutput `json:"deals"`
	Count int          `json:"count"`
}

func (h *DealHandlers) FindDeals(_ context.Context, request *mcp.CallToolRequest, input FindDealsInput) (*mcp.CallToolResult, FindDealsOutput, error) {
	filter := crm.DealFilter{Query: input.Query, CustomerID: input.CustomerID}
	if input.Status != "" {
		st, err := models.ParseDealStatus(input.Status)
		if err != nil {
			return nil, FindDealsOutput{}, err
		}
		filter.Status = st
	}

	deals := h.svc.Deals(filter)
	limit := limitOf(input.Limit)
	out := FindDealsOutput{Deals: make([]DealOutput, 0, len(deals)), Count: len(deals)}
	for i, d := range deals {
		if i == limit {
			break
		}
		out.Deals = append(out.Deals, h.toOutput(d))
	}
	return nil, out, nil
}

type PipelineSummaryInput struct{}

type ReasonCountOutput struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

type PipelineSummaryOutput struct {
	Ongoing           int                 `json:"ongoing"`
	Closed            int                 `json:"closed"`
	Rejected          int                 `json:"rejected"`
	Total             int                 `json:"total"`
	WeightedValue     float64             `json:"weighted_value"`
	WeightedValueText string              `json:"weighted_value_text"`
	ClosedValue       float64             `json:"closed_value"`
	CloseRate         float64             `json:"close_rate"`
	RejectionReasons  []ReasonCountOutput `json:"rejection_reasons"`
}

func (h *DealHandlers) PipelineSummary(_ context.Context, request *mcp.CallToolRequest, input PipelineSummaryInput) (*mcp.CallToolResult, PipelineSummaryOutput, error) {
	snap := h.svc.Snapshot()
	p := crm.Pipeline(snap.Deals)
	loc := i18n.LocaleFor(snap.Settings)

	out := PipelineSummaryOutput{
		Ongoing:           p.Ongoing,
		Closed:            p.Closed,
		Rejected:          p.Rejected,
		Total:             p.Total,
		WeightedValue:     p.WeightedValue,
		WeightedValueText: loc.Money(p.WeightedValue),
		ClosedValue:       p.ClosedValue,
		CloseRate:         p.CloseRate(),
		RejectionReasons:  []ReasonCountOutput{},
	}
	for _, rc := range crm.RejectionStats(snap.Deals, snap.RejectionReasons) {
		out.RejectionReasons = append(out.RejectionReasons, ReasonCountOutput{Reason: rc.Reason, Count: rc.Count})
	}
	return nil, out, nil
}

func (h *DealHandlers) toOutput(d models.Deal) DealOutput {
	loc := i18n.LocaleFor(h.svc.Settings())
	return DealOutput{
		ID:                d.ID,
		Title:             d.Title,
		CustomerID:        d.CustomerID,
		CustomerName:      customerLabel(h.svc, d.CustomerID),
		Value:             d.Value,
		ValueText:         loc.Money(d.Value),
		Probability:       d.Probability,
		WeightedValue:     d.WeightedValue(),
		Status:            string(d.Status),
		ExpectedCloseDate: formatTime(d.ExpectedCloseDate),
		CreatedAt:         formatTime(d.CreatedAt),
		Notes:             d.Notes,
		RejectionReason:   d.RejectionReason,
	}
}
