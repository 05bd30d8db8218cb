package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/parser"
	"github.com/balkashynov/taskgraph/internal/ui"
)

func newPriorityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "priority <id> <alta|media|baixa>",
		Short: "Change a task's priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return usage(cmd, "taskgraph priority <id> <alta|media|baixa>")
			}
			taskID, err := parser.ParseTaskID(args[0])
			if err != nil {
				return report(cmd, err)
			}
			priority, err := parser.ParsePriority(args[1])
			if err != nil {
				return report(cmd, err)
			}

			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			task, err := svc.SetPriority(taskID, priority)
			if err != nil {
				return report(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				ui.Success(fmt.Sprintf("✅ Priority of task #%d set to", task.ID)),
				ui.PriorityLabel(task.Priority))
			return nil
		},
	}
}
