package cli

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/handlers"
	"github.com/harperreed/amil/store"
)

func connectMCP(t *testing.T) (*crm.Service, *mcp.ClientSession) {
	t.Helper()
	ctx := context.Background()

	kv, err := store.OpenMemory()
	require.NoError(t, err)
	svc, err := crm.Open(kv, crm.WithClock(func() time.Time {
		return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := newMCPServer(svc, "test").Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return svc, cs
}

func TestMCPServerListsTools(t *testing.T) {
	_, cs := connectMCP(t)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{
		"add_customer", "find_customers", "update_customer", "delete_customer",
		"log_interaction", "find_interactions",
		"create_deal", "update_deal", "find_deals", "pipeline_summary",
		"add_task", "update_task_status", "find_tasks", "due_tasks",
		"crm_report", "export_backup", "pipeline_graph", "dashboard",
	} {
		assert.Contains(t, names, want)
	}
}

func TestMCPAddCustomerThenReadResource(t *testing.T) {
	svc, cs := connectMCP(t)
	ctx := context.Background()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "add_customer",
		Arguments: map[string]any{"name": "Sara", "phone": "0100"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, svc.Customers(crm.CustomerFilter{}), 1)

	read, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "crm://customers"})
	require.NoError(t, err)
	require.Len(t, read.Contents, 1)
	assert.Contains(t, read.Contents[0].Text, "Sara")
}

func TestMCPToolErrorIsReported(t *testing.T) {
	_, cs := connectMCP(t)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "add_customer",
		Arguments: map[string]any{"name": "", "phone": "0100"},
	})
	if err == nil {
		assert.True(t, res.IsError)
	}
}

func TestMCPPrompts(t *testing.T) {
	_, cs := connectMCP(t)

	res, err := cs.ListPrompts(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, res.Prompts, len(handlers.Prompts))
}
