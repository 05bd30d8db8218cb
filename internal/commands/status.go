package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/graph"
	"github.com/balkashynov/taskgraph/internal/ui"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show project progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			p, err := svc.Project()
			if err != nil {
				return err
			}
			s := graph.Summarize(p.Tasks)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%s\n\n", ui.Header("📊 Project status: "+p.Name))
			fmt.Fprintf(out, "   Total: %d tasks\n", s.Total)
			fmt.Fprintf(out, "   %s\n", ui.Success(fmt.Sprintf("✅ Done: %d", s.Done)))
			fmt.Fprintf(out, "   %s\n", ui.Warning(fmt.Sprintf("🔄 In progress: %d", s.InProgress)))
			fmt.Fprintf(out, "   %s\n", ui.Info(fmt.Sprintf("○  Available: %d", s.Ready)))
			fmt.Fprintf(out, "   %s\n", ui.Error(fmt.Sprintf("⊘  Blocked: %d", s.Blocked)))
			fmt.Fprintf(out, "\n   %s %d%%\n\n", ui.ProgressBar(s.PercentDone), s.PercentDone)

			if s.WithDependencies > 0 {
				fmt.Fprintf(out, "   %s\n", ui.Dim(fmt.Sprintf("%d task(s) with dependencies configured", s.WithDependencies)))
				fmt.Fprintf(out, "   %s\n\n", ui.Dim(`Use "taskgraph graph" to see them`))
			}
			return nil
		},
	}
}
