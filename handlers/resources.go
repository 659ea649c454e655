// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only access to customers, deals, tasks and the pipeline via crm:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/amil/crm"
)

// ResourceURIs lists the fixed resources registered with the server.
var ResourceURIs = []string{
	"crm://customers",
	"crm://deals",
	"crm://tasks",
	"crm://pipeline",
	"crm://settings",
}

type ResourceHandlers struct {
	svc *crm.Service
}

func NewResourceHandlers(svc *crm.Service) *ResourceHandlers {
	return &ResourceHandlers{svc: svc}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	parts := strings.Split(strings.TrimPrefix(uri, "crm://"), "/")
	snap := h.svc.Snapshot()

	switch parts[0] {
	case "customers":
		if len(parts) == 1 {
			return jsonResource(uri, snap.Customers)
		}
		c, ok := h.svc.Customer(parts[1])
		if !ok {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		return jsonResource(uri, c)

	case "deals":
		if len(parts) == 1 {
			return jsonResource(uri, snap.Deals)
		}
		d, ok := h.svc.Deal(parts[1])
		if !ok {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		return jsonResource(uri, d)

	case "tasks":
		return jsonResource(uri, crm.SortTasks(snap.Tasks, h.svc.Now()))

	case "pipeline":
		p := crm.Pipeline(snap.Deals)
		return jsonResource(uri, struct {
			crm.PipelineStats
			CloseRate  float64           `json:"closeRate"`
			Rejections []crm.ReasonCount `json:"rejections"`
		}{
			PipelineStats: p,
			CloseRate:     p.CloseRate(),
			Rejections:    crm.RejectionStats(snap.Deals, snap.RejectionReasons),
		})

	case "settings":
		return jsonResource(uri, snap.Settings)

	default:
		return nil, mcp.ResourceNotFoundError(uri)
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
