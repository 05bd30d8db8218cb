package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/db"
	"github.com/balkashynov/taskgraph/internal/parser"
	"github.com/balkashynov/taskgraph/internal/ui"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [task title]",
		Short: "Add a new task",
		Long: `Add a new pending task. All arguments are joined into the title.

Examples:
  taskgraph add "Set up database"
  taskgraph add Write API handlers --priority alta --on 1
  taskgraph add "Deploy" --desc "staging first" --on 2,3`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usage(cmd, `taskgraph add "Task title"`)
			}

			req := db.CreateTaskRequest{Title: title}
			req.Description, _ = cmd.Flags().GetString("desc")
			if p, _ := cmd.Flags().GetString("priority"); p != "" {
				priority, err := parser.ParsePriority(p)
				if err != nil {
					return report(cmd, err)
				}
				req.Priority = priority
			}
			on, _ := cmd.Flags().GetStringSlice("on")
			deps, err := parser.ParseTaskIDs(on)
			if err != nil {
				return report(cmd, err)
			}
			req.Dependencies = deps

			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			task, err := svc.CreateTask(req)
			if err != nil {
				return report(cmd, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("✅ Task #%d added: %s", task.ID, task.Title)))
			if req.Priority != "" {
				fmt.Fprintf(out, "  Priority: %s\n", ui.PriorityLabel(task.Priority))
			}
			if len(task.Dependencies) > 0 {
				fmt.Fprintf(out, "  Depends on: %s\n", joinIDs(task.Dependencies))
			}
			return nil
		},
	}

	cmd.Flags().StringP("priority", "p", "", "Priority: alta|media|baixa (or high|medium|low)")
	cmd.Flags().StringP("desc", "d", "", "Task description")
	cmd.Flags().StringSlice("on", nil, "Ids of tasks this one depends on (comma-separated)")
	return cmd
}

// joinIDs formats ids as "#1, #2".
func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return strings.Join(parts, ", ")
}
