package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/graph"
	"github.com/balkashynov/taskgraph/internal/ui"
)

type scoreJSON struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	Available  bool   `json:"available"`
	Score      int    `json:"score"`
	Urgency    int    `json:"urgency"`
	PriorityPt int    `json:"priority_points"`
	Dependents int    `json:"dependents"`
	Depth      int    `json:"depth"`
}

func newScoresCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the score of every open task",
		Long: `Show every task that is not done, highest score first, with the points
from each component. Equal scores are ordered by id.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")

			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			ranked, p, err := svc.Scores()
			if err != nil {
				return report(cmd, err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				rows := make([]scoreJSON, 0, len(ranked))
				for _, r := range ranked {
					rows = append(rows, scoreJSON{
						ID:         r.Task.ID,
						Title:      r.Task.Title,
						Status:     string(r.Task.Status),
						Priority:   string(r.Task.Priority),
						Available:  graph.IsReady(r.Task, p.Tasks),
						Score:      r.Score.Total,
						Urgency:    r.Score.Urgency.Points,
						PriorityPt: r.Score.Priority.Points,
						Dependents: r.Score.Dependents.Points,
						Depth:      r.Score.Depth.Points,
					})
				}
				jsonBytes, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return fmt.Errorf("encode scores: %w", err)
				}
				fmt.Fprintln(out, string(jsonBytes))
				return nil
			}

			if len(ranked) == 0 {
				fmt.Fprintln(out, ui.Success("🎉 All tasks are done!"))
				return nil
			}

			fmt.Fprintf(out, "\n%s\n\n", ui.Header("📊 Automatic prioritization scores"))
			fmt.Fprintln(out, ui.ScoreTable(ranked, p.Tasks))
			fmt.Fprintf(out, "\n%s\n\n", ui.ScoreLegend(a.cfg.Weights()))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
