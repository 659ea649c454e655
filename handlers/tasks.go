// ABOUTME: Task MCP tool handlers
// ABOUTME: Implements add_task, update_task_status, find_tasks and due_tasks tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

type TaskHandlers struct {
	svc *crm.Service
}

func NewTaskHandlers(svc *crm.Service) *TaskHandlers {
	return &TaskHandlers{svc: svc}
}

type AddTaskInput struct {
	Title        string `json:"title" jsonschema:"Task title (required)"`
	Description  string `json:"description,omitempty" jsonschema:"Longer description"`
	DueDate      string `json:"due_date" jsonschema:"Due date and time, ISO 8601 or YYYY-MM-DDTHH:MM (required)"`
	Priority     string `json:"priority,omitempty" jsonschema:"Priority: high, medium, low (default medium)"`
	CustomerID   string `json:"customer_id,omitempty" jsonschema:"Related customer ID"`
	CustomerName string `json:"customer_name,omitempty" jsonschema:"Exact related customer name, used when customer_id is empty"`
}

type TaskOutput struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	DueDate      string `json:"due_date"`
	Priority     string `json:"priority"`
	Status       string `json:"status"`
	Overdue      bool   `json:"overdue"`
	CustomerID   string `json:"customer_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	CreatedAt    string `json:"created_at"`
	Warning      string `json:"warning,omitempty"`
}

func (h *TaskHandlers) AddTask(_ context.Context, request *mcp.CallToolRequest, input AddTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	if input.Title == "" {
		return nil, TaskOutput{}, fmt.Errorf("title is required")
	}
	if input.DueDate == "" {
		return nil, TaskOutput{}, fmt.Errorf("due_date is required")
	}
	due, err := parseDate("due_date", input.DueDate, h.svc.Now())
	if err != nil {
		return nil, TaskOutput{}, err
	}

	draft := models.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     due,
	}
	if input.CustomerID != "" || input.CustomerName != "" {
		if draft.CustomerID, err = resolveCustomer(h.svc, input.CustomerID, input.CustomerName); err != nil {
			return nil, TaskOutput{}, err
		}
	}
	if input.Priority != "" {
		if draft.Priority, err = models.ParsePriority(input.Priority); err != nil {
			return nil, TaskOutput{}, err
		}
	}

	task, err := h.svc.CreateTask(draft)
	warning, err := warnOrFail(err)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to create task: %w", err)
	}

	out := h.toOutput(task)
	out.Warning = warning
	return nil, out, nil
}

type UpdateTaskStatusInput struct {
	ID     string `json:"id" jsonschema:"Task ID (required)"`
	Status string `json:"status" jsonschema:"New status: pending, inProgress, completed (required)"`
}

func (h *TaskHandlers) UpdateTaskStatus(_ context.Context, request *mcp.CallToolRequest, input UpdateTaskStatusInput) (*mcp.CallToolResult, TaskOutput, error) {
	if input.ID == "" {
		return nil, TaskOutput{}, fmt.Errorf("id is required")
	}
	status, err := models.ParseTaskStatus(input.Status)
	if err != nil {
		return nil, TaskOutput{}, err
	}

	task, err := h.svc.SetTaskStatus(input.ID, status)
	warning, err := warnOrFail(err)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to update task: %w", err)
	}

	out := h.toOutput(task)
	out.Warning = warning
	return nil, out, nil
}

type FindTasksInput struct {
	Status     string `json:"status,omitempty" jsonschema:"Filter by status"`
	Priority   string `json:"priority,omitempty" jsonschema:"Filter by priority"`
	CustomerID string `json:"customer_id,omitempty" jsonschema:"Filter by related customer ID"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type TaskListOutput struct {
	Tasks []TaskOutput `json:"tasks"`
	Count int          `json:"count"`
}

func (h *TaskHandlers) FindTasks(_ context.Context, request *mcp.CallToolRequest, input FindTasksInput) (*mcp.CallToolResult, TaskListOutput, error) {
	filter := crm.TaskFilter{CustomerID: input.CustomerID}
	var err error
	if input.Status != "" {
		if filter.Status, err = models.ParseTaskStatus(input.Status); err != nil {
			return nil, TaskListOutput{}, err
		}
	}
	if input.Priority != "" {
		if filter.Priority, err = models.ParsePriority(input.Priority); err != nil {
			return nil, TaskListOutput{}, err
		}
	}

	return nil, h.listOutput(h.svc.Tasks(filter), limitOf(input.Limit)), nil
}

type DueTasksInput struct {
	Scope string `json:"scope,omitempty" jsonschema:"Which tasks: overdue, today or soon (due within the next hour). Default overdue and today"`
}

func (h *TaskHandlers) DueTasks(_ context.Context, request *mcp.CallToolRequest, input DueTasksInput) (*mcp.CallToolResult, TaskListOutput, error) {
	now := h.svc.Now()
	all := h.svc.Tasks(crm.TaskFilter{})

	var tasks []models.Task
	switch input.Scope {
	case "overdue":
		tasks = crm.Overdue(all, now)
	case "today":
		tasks = crm.DueToday(all, now)
	case "soon":
		tasks = crm.DueSoon(all, now, crm.DefaultNotifyWindow)
	case "":
		seen := make(map[string]bool)
		for _, t := range append(crm.Overdue(all, now), crm.DueToday(all, now)...) {
			if !seen[t.ID] {
				seen[t.ID] = true
				tasks = append(tasks, t)
			}
		}
	default:
		return nil, TaskListOutput{}, fmt.Errorf("invalid scope: %s (valid: overdue, today, soon)", input.Scope)
	}

	return nil, h.listOutput(crm.SortTasks(tasks, now), len(tasks)), nil
}

func (h *TaskHandlers) listOutput(tasks []models.Task, limit int) TaskListOutput {
	out := TaskListOutput{Tasks: make([]TaskOutput, 0, len(tasks)), Count: len(tasks)}
	for i, t := range tasks {
		if i == limit {
			break
		}
		out.Tasks = append(out.Tasks, h.toOutput(t))
	}
	return out
}

func (h *TaskHandlers) toOutput(t models.Task) TaskOutput {
	return TaskOutput{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		DueDate:      formatTime(t.DueDate),
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		Overdue:      t.IsOverdue(h.svc.Now()),
		CustomerID:   t.CustomerID,
		CustomerName: customerLabel(h.svc, t.CustomerID),
		CreatedAt:    formatTime(t.CreatedAt),
	}
}
