package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/graph"
	"github.com/balkashynov/taskgraph/internal/models"
	"github.com/balkashynov/taskgraph/internal/ui"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks grouped as in progress, pending and done. Pending tasks are
shown in dependency order; blocked ones are marked and their dependency ids are
colored by whether they are done.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			p, err := svc.Project()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(p.Tasks) == 0 {
				fmt.Fprintln(out, ui.Warning("📋 No tasks found"))
				fmt.Fprintln(out, ui.Dim(`   Use "taskgraph add" to create one`))
				return nil
			}

			var inProgress, pending, done []models.Task
			for _, t := range p.Tasks {
				switch t.Status {
				case models.StatusInProgress:
					inProgress = append(inProgress, t)
				case models.StatusDone:
					done = append(done, t)
				default:
					pending = append(pending, t)
				}
			}

			fmt.Fprintf(out, "\n%s\n\n", ui.Header("📋 Tasks - "+p.Name))

			if len(inProgress) > 0 {
				fmt.Fprintln(out, ui.Warning("🔄 In progress:"))
				for _, t := range inProgress {
					fmt.Fprintf(out, "   %s\n", ui.TaskLine(t, p.Tasks))
				}
				fmt.Fprintln(out)
			}

			if len(pending) > 0 {
				order := graph.TopologicalOrder(pending)
				fmt.Fprintln(out, ui.Info("⏳ Pending:"))
				for _, t := range order.All() {
					fmt.Fprintf(out, "   %s\n", ui.TaskLine(t, p.Tasks))
				}
				if !order.Complete() {
					fmt.Fprintln(out, ui.Warning(fmt.Sprintf("   ⚠ %d task(s) form a dependency cycle and are listed in stored order", len(order.Residual))))
				}
				fmt.Fprintln(out)
			}

			if len(done) > 0 {
				fmt.Fprintln(out, ui.Success("✅ Done:"))
				for _, t := range done {
					fmt.Fprintf(out, "   %s\n", ui.TaskLine(t, p.Tasks))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
