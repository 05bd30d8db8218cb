package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/parser"
	"github.com/balkashynov/taskgraph/internal/ui"
)

// edgeArgs parses "<id> --<flag> <depId>". ok is false when either is
// missing, in which case the caller prints usage.
func edgeArgs(cmd *cobra.Command, args []string, flag string) (id, depID int, ok bool, err error) {
	raw, _ := cmd.Flags().GetString(flag)
	if len(args) == 0 || raw == "" {
		return 0, 0, false, nil
	}
	if id, err = parser.ParseTaskID(args[0]); err != nil {
		return 0, 0, false, err
	}
	if depID, err = parser.ParseTaskID(raw); err != nil {
		return 0, 0, false, err
	}
	return id, depID, true, nil
}

func newDependsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depends <id> --on <dep-id>",
		Short: "Make a task depend on another",
		Long: `Record that a task cannot start before another is done. Self-dependencies,
duplicates and edges that would close a cycle are rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, depID, ok, err := edgeArgs(cmd, args, "on")
			if err != nil {
				return report(cmd, err)
			}
			if !ok {
				return usage(cmd, "taskgraph depends <id> --on <dep-id>",
					"Example: taskgraph depends 5 --on 2",
					"(task 5 now depends on task 2)")
			}

			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			task, dep, err := svc.AddDependency(id, depID)
			if err != nil {
				return report(cmd, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("✅ Dependency added: #%d depends on #%d", task.ID, dep.ID)))
			fmt.Fprintln(out, ui.Dim(fmt.Sprintf("   %s → %s", task.Title, dep.Title)))
			return nil
		},
	}
	cmd.Flags().String("on", "", "Id of the task to depend on")
	return cmd
}

func newUndependsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undepends <id> --from <dep-id>",
		Short: "Remove a dependency",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, depID, ok, err := edgeArgs(cmd, args, "from")
			if err != nil {
				return report(cmd, err)
			}
			if !ok {
				return usage(cmd, "taskgraph undepends <id> --from <dep-id>",
					"Example: taskgraph undepends 5 --from 2")
			}

			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			if _, err := svc.RemoveDependency(id, depID); err != nil {
				return report(cmd, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("✅ Dependency removed: #%d no longer depends on #%d", id, depID)))
			return nil
		},
	}
	cmd.Flags().String("from", "", "Id of the dependency to remove")
	return cmd
}
