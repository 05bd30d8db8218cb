package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/graph"
	"github.com/balkashynov/taskgraph/internal/ui"
)

func newGraphCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Show the dependency graph by depth",
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
				return nil
			}

			levels, err := graph.Levels(p.Tasks)
			if err != nil {
				return report(cmd, err)
			}
			fmt.Fprintf(out, "\n%s\n\n", ui.GraphView(levels, p.Tasks))
			return nil
		},
	}
}
