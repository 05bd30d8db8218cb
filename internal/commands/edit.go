package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/parser"
	"github.com/balkashynov/taskgraph/internal/ui"
)

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> [new description]",
		Short: "Show a task or replace its description",
		Long: `Without a description, show the task card. Otherwise the remaining
arguments are joined and replace the task's description.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usage(cmd, `taskgraph edit <id> "new description"`)
			}
			taskID, err := parser.ParseTaskID(args[0])
			if err != nil {
				return report(cmd, err)
			}

			svc, err := a.service(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			description := strings.Join(args[1:], " ")
			if description == "" {
				task, p, err := svc.GetTask(taskID)
				if err != nil {
					return report(cmd, err)
				}
				fmt.Fprintln(out, ui.TaskCard(*task, p.Tasks))
				return nil
			}

			if _, err := svc.UpdateDescription(taskID, description); err != nil {
				return report(cmd, err)
			}
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("✅ Description of task #%d updated", taskID)))
			return nil
		},
	}
}
