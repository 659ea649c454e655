// ABOUTME: Task subcommands including due summaries and the notification watch loop
// ABOUTME: Lists are ordered incomplete first, then by due date and priority
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
)

func (a *app) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Manage tasks and reminders",
	}
	cmd.AddCommand(a.tasksAddCmd())
	cmd.AddCommand(a.tasksListCmd())
	cmd.AddCommand(a.tasksUpdateCmd())
	cmd.AddCommand(a.tasksDeleteCmd())
	cmd.AddCommand(a.tasksStatusCmd())
	cmd.AddCommand(a.tasksDueCmd())
	cmd.AddCommand(a.tasksWatchCmd())
	return cmd
}

func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "task title")
	cmd.Flags().String("description", "", "task description")
	cmd.Flags().String("customer", "", `customer id or exact name; "" for a general task`)
	cmd.Flags().String("due", "", `due date and time ("2006-01-02 15:04")`)
	cmd.Flags().String("priority", "", "priority (high, medium, low)")
	cmd.Flags().String("status", "", "status (pending, inProgress, completed)")
}

func (a *app) applyTaskFlags(cmd *cobra.Command, svc *crm.Service, t *models.Task) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		t.Title, _ = flags.GetString("title")
	}
	if flags.Changed("description") {
		t.Description, _ = flags.GetString("description")
	}
	if flags.Changed("customer") {
		ref, _ := flags.GetString("customer")
		t.CustomerID = ""
		if ref != "" {
			id, err := svc.ResolveCustomer(ref)
			if err != nil {
				return err
			}
			t.CustomerID = id
		}
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		due, err := models.ParseTime(v)
		if err != nil {
			return err
		}
		t.DueDate = due
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := models.ParsePriority(v)
		if err != nil {
			return err
		}
		t.Priority = p
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		s, err := models.ParseTaskStatus(v)
		if err != nil {
			return err
		}
		t.Status = s
	}
	return nil
}

func (a *app) tasksAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a task",
		Example: `  amil tasks add --title "Send quote" --customer "Sara Ahmed" --due "2024-05-12 10:00" --priority high`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			var draft models.Task
			if err := a.applyTaskFlags(cmd, svc, &draft); err != nil {
				return err
			}

			t, err := svc.CreateTask(draft)
			if err := a.settle(err); err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}

			loc := a.locale()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Task created: %s (ID: %s)\n", t.Title, t.ID)
			fmt.Fprintf(out, "  %s: %s\n", loc.T("customer"), a.customerLabel(svc, t.CustomerID))
			fmt.Fprintf(out, "  %s: %s\n", loc.T("dueDate"), loc.DateTime(t.DueDate))
			fmt.Fprintf(out, "  %s: %s\n", loc.T("priority"), loc.Label(t.Priority))
			return nil
		},
	}
	addTaskFlags(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func (a *app) tasksListCmd() *cobra.Command {
	var status, priority, customer string
	var overdue bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			var f crm.TaskFilter
			if f.Status, err = parseOptional(status, models.ParseTaskStatus); err != nil {
				return err
			}
			if f.Priority, err = parseOptional(priority, models.ParsePriority); err != nil {
				return err
			}
			if customer != "" {
				if f.CustomerID, err = svc.ResolveCustomer(customer); err != nil {
					return err
				}
			}

			tasks := svc.Tasks(f)
			if overdue {
				tasks = crm.Overdue(tasks, svc.Now())
			}
			return a.printTasks(cmd.OutOrStdout(), svc, tasks)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority")
	cmd.Flags().StringVar(&customer, "customer", "", "only this customer (id or name)")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "only overdue tasks")
	return cmd
}

func (a *app) printTasks(out io.Writer, svc *crm.Service, tasks []models.Task) error {
	loc := a.locale()
	if len(tasks) == 0 {
		fmt.Fprintln(out, loc.T("noTasksRecorded"))
		return nil
	}

	now := svc.Now()
	tw := newTable(out, "ID", loc.T("taskTitle"), loc.T("customer"), loc.T("dueDate"), loc.T("priority"), loc.T("status"))
	for _, t := range tasks {
		due := loc.DateTime(t.DueDate)
		if t.IsOverdue(now) {
			due = "! " + due + " (" + loc.T("overdue") + ")"
		}
		row(tw, t.ID, truncate(t.Title, 30), a.customerLabel(svc, t.CustomerID), due, loc.Label(t.Priority), loc.Label(t.Status))
	}
	return tw.Flush()
}

func (a *app) tasksUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task; only the flags given change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			draft, ok := svc.Task(args[0])
			if !ok {
				return fmt.Errorf("task %s: %w", args[0], crm.ErrNotFound)
			}
			if err := a.applyTaskFlags(cmd, svc, &draft); err != nil {
				return err
			}

			t, err := svc.UpdateTask(args[0], draft)
			if err := a.settle(err); err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Task updated: %s (ID: %s)\n", t.Title, t.ID)
			return nil
		},
	}
	addTaskFlags(cmd)
	return cmd
}

func (a *app) tasksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			t, ok := svc.Task(args[0])
			if !ok {
				return fmt.Errorf("task %s: %w", args[0], crm.ErrNotFound)
			}

			ok, err = a.confirm(cmd, fmt.Sprintf("%s (%s)", a.locale().T("confirmDeleteTask"), t.Title))
			if err != nil || !ok {
				return err
			}
			if err := a.settle(svc.DeleteTask(t.ID)); err != nil {
				return fmt.Errorf("failed to delete task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Task deleted: %s\n", t.Title)
			return nil
		},
	}
}

func (a *app) tasksStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status <id> <status>",
		Short:   "Set a task's status",
		Example: `  amil tasks status 01HX... completed`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			status, err := models.ParseTaskStatus(args[1])
			if err != nil {
				return err
			}

			t, err := svc.SetTaskStatus(args[0], status)
			if err := a.settle(err); err != nil {
				return fmt.Errorf("task %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s\n", t.Title, a.locale().Label(t.Status))
			return nil
		},
	}
}

func (a *app) tasksDueCmd() *cobra.Command {
	var window time.Duration
	cmd := &cobra.Command{
		Use:   "due",
		Short: "Show overdue tasks, today's tasks and tasks due soon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("window") {
				window = a.v.GetDuration("notify.window")
			}

			now := svc.Now()
			tasks := svc.Tasks(crm.TaskFilter{})
			loc := a.locale()
			out := cmd.OutOrStdout()

			sections := []struct {
				title string
				tasks []models.Task
			}{
				{loc.T("overdueTasks"), crm.Overdue(tasks, now)},
				{loc.T("todayTasks"), crm.DueToday(tasks, now)},
				{loc.T("taskNotifications"), crm.DueSoon(tasks, now, window)},
			}
			for i, s := range sections {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (%d)\n", s.title, len(s.tasks))
				if len(s.tasks) > 0 {
					if err := a.printTasks(out, svc, s.tasks); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&window, "window", crm.DefaultNotifyWindow, "how far ahead counts as due soon")
	return cmd
}

func (a *app) tasksWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print due-soon notifications until interrupted",
		Long: `Check for tasks due within notify.window every notify.interval and print the
current set whenever it changes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			last := "-"
			n := crm.ForService(svc, func(tasks []models.Task) {
				var ids []string
				for _, t := range tasks {
					ids = append(ids, t.ID)
				}
				key := strings.Join(ids, ",")
				if key == last {
					return
				}
				last = key
				fmt.Fprint(out, a.formatNotifications(svc, tasks))
			})
			n.Interval = a.v.GetDuration("notify.interval")
			n.Window = a.v.GetDuration("notify.window")

			a.logger.Info("watching tasks", "interval", n.Interval, "window", n.Window)
			n.Run(cmd.Context())
			return nil
		},
	}
}

func (a *app) formatNotifications(svc *crm.Service, tasks []models.Task) string {
	loc := a.locale()
	now := svc.Now()
	text := fmt.Sprintf("[%s] 🔔 %s (%d)\n", loc.DateTime(now), loc.T("taskNotifications"), len(tasks))
	for _, t := range tasks {
		minutes := int(t.DueDate.Sub(now).Minutes())
		text += fmt.Sprintf("  %s · %s · %s (%s)\n", t.Title, a.customerLabel(svc, t.CustomerID),
			loc.DateTime(t.DueDate), i18n.FormatNumber(float64(minutes), loc.Language)+" "+loc.T("minutes"))
	}
	return text
}
