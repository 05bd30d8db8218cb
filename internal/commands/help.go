package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "Show help for taskgraph",
		Long:  `Display help for all taskgraph commands and flags.`,
		Run: func(cmd *cobra.Command, args []string) {
			showCustomHelp(cmd)
		},
	}
}

func showCustomHelp(cmd *cobra.Command) {
	fmt.Fprint(cmd.OutOrStdout(), `
taskgraph - task dependencies with automatic prioritization

COMMANDS:

  add <title>                     Add a new task
    -p, --priority                Priority: alta|media|baixa (high|medium|low)
    -d, --desc                    Description
    --on                          Ids it depends on (comma-separated)
  list                            List tasks (in progress, pending, done)
  next                            Start the ready task with the highest score
  done <id>                       Mark a task as completed
  status                          Project progress
  edit <id> [description]         Show a task, or replace its description
  priority <id> <p>               Change priority (alta|media|baixa)
  search <query>                  Search titles and descriptions
    --json                        JSON output

DEPENDENCIES:

  depends <id> --on <dep-id>      Add a dependency
  undepends <id> --from <dep-id>  Remove a dependency
  graph                           Show the dependency graph

AUTOMATIC PRIORITIZATION:

  scores                          Show the score of every open task
    --json                        JSON output

  Score = (Urgency×2) + (Priority×3) + (Dependents×4) + (Depth×1)
  The highest score is what "taskgraph next" starts first.

GLOBAL FLAGS:

  --config <file>                 Config file (default .taskgraph.yaml)
  -v, --verbose                   Diagnostics on stderr

EXAMPLES:

  taskgraph add "Implement login"
  taskgraph depends 3 --on 1      # task 3 depends on task 1
  taskgraph scores                # see computed scores
  taskgraph next                  # start the task with the highest score

`)
}
