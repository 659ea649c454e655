// ABOUTME: Visualization MCP handlers
// ABOUTME: Provides the pipeline_graph and dashboard tools for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/viz"
)

type VizHandlers struct {
	svc *crm.Service
}

func NewVizHandlers(svc *crm.Service) *VizHandlers {
	return &VizHandlers{svc: svc}
}

type PipelineGraphInput struct{}

type PipelineGraphOutput struct {
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) PipelineGraph(ctx context.Context, request *mcp.CallToolRequest, input PipelineGraphInput) (*mcp.CallToolResult, PipelineGraphOutput, error) {
	snap := h.svc.Snapshot()
	data, err := viz.PipelineGraph(ctx, snap, i18n.LocaleFor(snap.Settings), viz.FormatDOT)
	if err != nil {
		return nil, PipelineGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	dot := string(data)
	// Count nodes and edges for stats
	nodes, edges := 0, 0
	for _, line := range strings.Split(dot, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.Contains(line, "->"):
			edges++
		case strings.HasPrefix(line, "customer_") || strings.HasPrefix(line, "deal_"):
			nodes++
		}
	}

	return nil, PipelineGraphOutput{DOTSource: dot, NodeCount: nodes, EdgeCount: edges}, nil
}

type DashboardInput struct{}

type DashboardOutput struct {
	Text         string `json:"text"`
	OverdueTasks int    `json:"overdue_tasks"`
	TodayTasks   int    `json:"today_tasks"`
	DueSoon      int    `json:"due_soon"`
}

func (h *VizHandlers) Dashboard(_ context.Context, request *mcp.CallToolRequest, input DashboardInput) (*mcp.CallToolResult, DashboardOutput, error) {
	snap := h.svc.Snapshot()
	stats := viz.GenerateDashboardStats(snap, h.svc.Now())
	return nil, DashboardOutput{
		Text:         viz.RenderDashboard(stats, i18n.LocaleFor(snap.Settings)),
		OverdueTasks: len(stats.OverdueTasks),
		TodayTasks:   len(stats.TodayTasks),
		DueSoon:      len(stats.DueSoon),
	}, nil
}
