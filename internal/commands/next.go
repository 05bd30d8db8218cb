package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/graph"
	"github.com/balkashynov/taskgraph/internal/ui"
)

func newNextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Start the highest scored ready task",
		Long: `Show the task in progress or, when there is none, move the ready task with
the highest score to in progress. Ready means pending with every dependency done.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			res, err := svc.StartNext()
			if err != nil {
				return report(cmd, err)
			}

			out := cmd.OutOrStdout()
			switch {
			case res.AllDone():
				fmt.Fprintln(out, ui.Success("🎉 All tasks are done!"))

			case res.Active == nil:
				fmt.Fprintf(out, "\n%s\n\n", ui.Warning("⚠️  Every pending task is blocked!"))
				fmt.Fprintln(out, ui.Dim("Blocked tasks:"))
				for _, t := range res.Blocked {
					waiting := graph.PendingDependencies(t, res.Project.Tasks)
					fmt.Fprintf(out, "   #%d %s %s\n", t.ID, t.Title, ui.Dim("(waiting on: "+joinIDs(waiting)+")"))
				}
				fmt.Fprintln(out)

			case !res.Started:
				fmt.Fprintln(out, ui.TaskCard(res.Active.Task, res.Project.Tasks))
				fmt.Fprintf(out, "%s %s %s\n", ui.Dim("Score:"), ui.Info(fmt.Sprintf("%d", res.Active.Score.Total)), ui.Dim("points"))
				fmt.Fprintln(out, ui.Dim(fmt.Sprintf("Use \"taskgraph done %d\" when finished", res.Active.Task.ID)))

			default:
				fmt.Fprintln(out, ui.TaskCard(res.Active.Task, res.Project.Tasks))
				fmt.Fprintln(out, ui.ScoreBreakdown(res.Active.Score))
				if len(res.RunnersUp) > 0 {
					fmt.Fprintf(out, "\n%s\n", ui.Dim("Other available:"))
					for _, r := range res.RunnersUp {
						fmt.Fprintln(out, ui.Dim(fmt.Sprintf("   #%d %s (score: %d)", r.Task.ID, r.Task.Title, r.Score.Total)))
					}
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, ui.Dim(fmt.Sprintf("Use \"taskgraph done %d\" when finished", res.Active.Task.ID)))
				fmt.Fprintln(out, ui.Dim(`Use "taskgraph scores" to see every score`))
			}
			return nil
		},
	}
}
