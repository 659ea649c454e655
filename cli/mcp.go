// ABOUTME: MCP server subcommand
// ABOUTME: Serves CRM tools, resources and prompts over stdio for desktop assistants
package cli

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/handlers"
)

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout so assistants such as
Claude Desktop can read and update the CRM. Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info("starting MCP server", "version", a.version)
			return newMCPServer(svc, a.version).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

// newMCPServer registers every tool, resource and prompt against svc.
func newMCPServer(svc *crm.Service, version string) *mcp.Server {
	customerHandlers := handlers.NewCustomerHandlers(svc)
	interactionHandlers := handlers.NewInteractionHandlers(svc)
	dealHandlers := handlers.NewDealHandlers(svc)
	taskHandlers := handlers.NewTaskHandlers(svc)
	reportHandlers := handlers.NewReportHandlers(svc)
	vizHandlers := handlers.NewVizHandlers(svc)
	resourceHandlers := handlers.NewResourceHandlers(svc)
	promptHandlers := handlers.NewPromptHandlers(svc)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "amil",
		Version: version,
	}, nil)

	// Customers
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_customer",
		Description: "Add a new customer with name, phone and optional email, type, tags and notes",
	}, customerHandlers.AddCustomer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_customers",
		Description: "Search customers by name, phone or email, with optional type and tag filters",
	}, customerHandlers.FindCustomers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_customer",
		Description: "Update an existing customer; omitted fields are left unchanged",
	}, customerHandlers.UpdateCustomer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_customer",
		Description: "Delete a customer; related interactions, deals and tasks are kept",
	}, customerHandlers.DeleteCustomer)

	// Interactions
	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Log a call, meeting, email or message with a customer and update their last contact date",
	}, interactionHandlers.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_interactions",
		Description: "List interactions filtered by customer, type, outcome and date range",
	}, interactionHandlers.FindInteractions)

	// Deals
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a deal for a customer with value, success probability and expected close date",
	}, dealHandlers.CreateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_deal",
		Description: "Update a deal's status, value, probability or rejection reason",
	}, dealHandlers.UpdateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_deals",
		Description: "Search deals by title, status or customer",
	}, dealHandlers.FindDeals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_summary",
		Description: "Summarise the pipeline: counts per status, expected value, close rate and rejection reasons",
	}, dealHandlers.PipelineSummary)

	// Tasks
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_task",
		Description: "Add a task or reminder, optionally linked to a customer",
	}, taskHandlers.AddTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_task_status",
		Description: "Set a task to pending, inProgress or completed",
	}, taskHandlers.UpdateTaskStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_tasks",
		Description: "List tasks filtered by status, priority or customer, incomplete first",
	}, taskHandlers.FindTasks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "due_tasks",
		Description: "List overdue tasks, tasks due today and tasks due within the notification window",
	}, taskHandlers.DueTasks)

	// Reports
	mcp.AddTool(server, &mcp.Tool{
		Name:        "crm_report",
		Description: "Generate the activity report for a date range in the configured language",
	}, reportHandlers.CRMReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_backup",
		Description: "Export every collection as a JSON backup",
	}, reportHandlers.ExportBackup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_graph",
		Description: "Render customers and their deals as a Graphviz DOT graph",
	}, vizHandlers.PipelineGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dashboard",
		Description: "Show dashboard counters: customers, deals, overdue and today's tasks",
	}, vizHandlers.Dashboard)

	for _, uri := range handlers.ResourceURIs {
		server.AddResource(&mcp.Resource{
			URI:      uri,
			Name:     uri,
			MIMEType: "application/json",
		}, resourceHandlers.ReadResource)
	}
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://customers/{id}",
		Name:        "customer",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://deals/{id}",
		Name:        "deal",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	for _, p := range handlers.Prompts {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}

	return server
}
