package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/parser"
	"github.com/balkashynov/taskgraph/internal/ui"
)

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done [task-id]",
		Short: "Mark a task as completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usage(cmd, "taskgraph done <id>")
			}
			taskID, err := parser.ParseTaskID(args[0])
			if err != nil {
				return report(cmd, err)
			}

			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			res, err := svc.MarkTaskDone(taskID)
			if err != nil {
				return report(cmd, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("✅ Task #%d done: %s", res.Task.ID, res.Task.Title)))

			if len(res.Unblocked) > 0 {
				fmt.Fprintf(out, "\n%s\n", ui.Success("🔓 Unblocked tasks:"))
				for _, t := range res.Unblocked {
					fmt.Fprintf(out, "   → #%d %s\n", t.ID, t.Title)
				}
			}

			if res.Next != nil {
				fmt.Fprintf(out, "\n%s\n", ui.Dim(fmt.Sprintf("Next: #%d - %s", res.Next.ID, res.Next.Title)))
				fmt.Fprintln(out, ui.Dim(`Use "taskgraph next" to start it`))
			}
			return nil
		},
	}
}
