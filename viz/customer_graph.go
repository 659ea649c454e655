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

var outcomeColors = map[models.Outcome]string{
	models.OutcomePositive: "lightgreen",
	models.OutcomeNeutral:  "lightgrey",
	models.OutcomeNegative: "lightpink",
}

// CustomerGraph renders one customer with everything attached to them:
// interactions, deals and tasks radiate from the customer node.
func CustomerGraph(ctx context.Context, snap crm.Snapshot, customerID string, loc i18n.Locale, format GraphFormat) ([]byte, error) {
	var customer *models.Customer
	for i := range snap.Customers {
		if snap.Customers[i].ID == customerID {
			customer = &snap.Customers[i]
			break
		}
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %s: %w", customerID, crm.ErrNotFound)
	}

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

	graph.SetLayout("neato")
	graph.SetLabel(customer.Name)

	center, err := graph.CreateNodeByName("customer_" + customer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer node: %w", err)
	}
	center.SetLabel(fmt.Sprintf("%s\n%s\n%s", customer.Name, customer.Phone, loc.Label(customer.Type)))
	center.SetShape("box")
	center.SetStyle("filled")
	center.SetFillColor("lightblue")

	link := func(name, label, color string) (*cgraph.Node, error) {
		node, err := graph.CreateNodeByName(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create node %s: %w", name, err)
		}
		node.SetLabel(label)
		node.SetStyle("filled")
		node.SetFillColor(color)
		if _, err := graph.CreateEdgeByName("", center, node); err != nil {
			return nil, fmt.Errorf("failed to create edge: %w", err)
		}
		return node, nil
	}

	for _, it := range snap.Interactions {
		if it.CustomerID != customer.ID {
			continue
		}
		label := fmt.Sprintf("%s\n%s\n%s", loc.Label(it.Type), loc.Date(it.Date), loc.Label(it.Outcome))
		node, err := link("interaction_"+it.ID, label, outcomeColors[it.Outcome])
		if err != nil {
			return nil, err
		}
		node.SetShape("note")
	}
	for _, d := range snap.Deals {
		if d.CustomerID != customer.ID {
			continue
		}
		label := fmt.Sprintf("%s\n%s\n%s", d.Title, loc.Money(d.Value), loc.Label(d.Status))
		node, err := link("deal_"+d.ID, label, statusColors[d.Status])
		if err != nil {
			return nil, err
		}
		node.SetShape("ellipse")
	}
	for _, t := range snap.Tasks {
		if t.CustomerID != customer.ID {
			continue
		}
		color := "white"
		if t.Status == models.TaskCompleted {
			color = "lightgrey"
		}
		label := fmt.Sprintf("%s\n%s\n%s", t.Title, loc.DateTime(t.DueDate), loc.Label(t.Status))
		node, err := link("task_"+t.ID, label, color)
		if err != nil {
			return nil, err
		}
		node.SetShape("diamond")
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
