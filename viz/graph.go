// ABOUTME: Graphviz rendering of the deal pipeline
// ABOUTME: Customers link to their deals; deal nodes are coloured by status
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
)

var statusColors = map[models.DealStatus]string{
	models.DealOngoing:  "lightyellow",
	models.DealClosed:   "lightgreen",
	models.DealRejected: "lightpink",
}

// GraphFormat selects the renderer output; "dot" and "svg" are supported.
type GraphFormat string

const (
	FormatDOT GraphFormat = "dot"
	FormatSVG GraphFormat = "svg"
)

// PipelineGraph renders customers and their deals. Deals pointing at a
// missing customer hang off a shared "unknown customer" node.
func PipelineGraph(ctx context.Context, snap crm.Snapshot, loc i18n.Locale, format GraphFormat) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel(loc.T("deals"))
	graph.SetRankDir(cgraph.LRRank)

	customerNodes := make(map[string]*cgraph.Node)
	for _, c := range snap.Customers {
		node, err := graph.CreateNodeByName("customer_" + c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create customer node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s", c.Name, loc.Label(c.Type)))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		customerNodes[c.ID] = node
	}

	var unknown *cgraph.Node
	for _, d := range snap.Deals {
		node, err := graph.CreateNodeByName("deal_" + d.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create deal node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s\n%s", d.Title, loc.Money(d.Value), loc.Label(d.Status)))
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor(statusColors[d.Status])

		owner, ok := customerNodes[d.CustomerID]
		if !ok {
			if unknown == nil {
				unknown, err = graph.CreateNodeByName("customer_unknown")
				if err != nil {
					return nil, fmt.Errorf("failed to create placeholder node: %w", err)
				}
				unknown.SetLabel(loc.T("unknownCustomer"))
				unknown.SetShape("box")
			}
			owner = unknown
		}
		edge, err := graph.CreateEdgeByName("", owner, node)
		if err != nil {
			return nil, fmt.Errorf("failed to create edge: %w", err)
		}
		if d.Status == models.DealOngoing {
			edge.SetLabel(fmt.Sprintf("%.0f%%", d.Probability))
		}
	}

	out := graphviz.XDOT
	if format == FormatSVG {
		out = graphviz.SVG
	}
	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, out, &buf); err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.Bytes(), nil
}
