package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/ui"
)

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search tasks by title or description",
		Long: `Search tasks with ranked matching:
- Exact match (highest priority)
- Prefix match
- Suffix match
- Contains match (lowest priority)

Search is case insensitive and looks at titles and descriptions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return usage(cmd, "taskgraph search <query>")
			}
			jsonOutput, _ := cmd.Flags().GetBool("json")

			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			hits, err := svc.SearchTasks(query)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				type jsonHit struct {
					ID     int    `json:"id"`
					Title  string `json:"title"`
					Status string `json:"status"`
					Match  string `json:"match"`
				}
				type searchResult struct {
					Query string    `json:"query"`
					Count int       `json:"count"`
					Tasks []jsonHit `json:"tasks"`
				}

				result := searchResult{Query: query, Count: len(hits), Tasks: []jsonHit{}}
				for _, h := range hits {
					result.Tasks = append(result.Tasks, jsonHit{
						ID:     h.Task.ID,
						Title:  h.Task.Title,
						Status: string(h.Task.Status),
						Match:  h.Match.String(),
					})
				}
				jsonBytes, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("encode search results: %w", err)
				}
				fmt.Fprintln(out, string(jsonBytes))
				return nil
			}

			fmt.Fprintf(out, "Search results for '%s' (%d found):\n", query, len(hits))
			if len(hits) == 0 {
				fmt.Fprintln(out, "No tasks found matching your search.")
				return nil
			}
			fmt.Fprintln(out)
			for _, h := range hits {
				fmt.Fprintf(out, "   %s #%d %s %s\n", ui.StatusIcon(h.Task.Status), h.Task.ID, h.Task.Title, ui.Dim("("+h.Match.String()+")"))
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
