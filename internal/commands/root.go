package commands

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskgraph/internal/config"
	"github.com/balkashynov/taskgraph/internal/db"
	"github.com/balkashynov/taskgraph/internal/graph"
	"github.com/balkashynov/taskgraph/internal/parser"
	"github.com/balkashynov/taskgraph/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds what a single invocation needs. The store is opened on first use
// so help and version never touch the disk.
type app struct {
	cfg     config.Config
	svc     *db.TaskService
	closeFn func() error
}

// service loads configuration and opens the task store.
func (a *app) service(cmd *cobra.Command) (*db.TaskService, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	v, err := config.New(cfgFile)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("verbose"); f != nil {
		if err := v.BindPFlag("verbose", f); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	var logger *log.Logger
	if cfg.Verbose {
		logger = log.New(cmd.ErrOrStderr(), "taskgraph: ", log.Ltime)
	}

	store, closeFn, err := db.Open(db.Options{
		Backend:     cfg.Backend,
		JSONPath:    cfg.TasksFile,
		SQLitePath:  cfg.SQLitePath,
		ProjectName: cfg.ProjectName,
		Today:       cfg.Clock(),
		Logger:      logger,
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		return nil, err
	}

	a.cfg = cfg
	a.closeFn = closeFn
	a.svc = db.NewTaskService(store, cfg.Clock(), cfg.Weights(), logger)
	return a.svc, nil
}

func (a *app) close() error {
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "taskgraph",
		Short: "Task dependencies with automatic prioritization",
		Long: `taskgraph keeps the tasks of a project in a JSON file, tracks which tasks
depend on which, and suggests what to work on next with a score built from
urgency, priority, the number of tasks waiting on it and its depth in the graph.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showCustomHelp(cmd)
			return nil
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		line := cmd.Use
		if cmd.HasParent() {
			line = cmd.Parent().CommandPath() + " " + cmd.Use
		}
		return usage(cmd, line, capitalize(err.Error()))
	})

	rootCmd.PersistentFlags().String("config", "", "config file (default .taskgraph.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newNextCmd(a))
	rootCmd.AddCommand(newDoneCmd(a))
	rootCmd.AddCommand(newDependsCmd(a))
	rootCmd.AddCommand(newUndependsCmd(a))
	rootCmd.AddCommand(newGraphCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newEditCmd(a))
	rootCmd.AddCommand(newPriorityCmd(a))
	rootCmd.AddCommand(newScoresCmd(a))
	rootCmd.AddCommand(newSearchCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.SetHelpCommand(newHelpCmd())

	return rootCmd, a
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	rootCmd, a := newRootCmd()
	err := rootCmd.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskgraph %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// userErrors are reported as a message; the command still succeeds and
// nothing has been saved.
var userErrors = []error{
	db.ErrTaskNotFound,
	db.ErrEmptyTitle,
	db.ErrSelfDependency,
	db.ErrCycle,
	db.ErrAlreadyDone,
	parser.ErrInvalidID,
	parser.ErrInvalidPriority,
	graph.ErrDepthCycle,
}

// notices are user errors that only repeat the current state.
var notices = []error{
	db.ErrDuplicateDependency,
	db.ErrNotDependent,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// report prints user errors and swallows them. Anything else, such as a
// failed save, is returned so the process exits non-zero.
func report(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	out := cmd.OutOrStdout()
	switch {
	case isAny(err, notices):
		fmt.Fprintln(out, ui.Warning("⚠️  "+capitalize(err.Error())))
		return nil
	case isAny(err, userErrors):
		fmt.Fprintln(out, ui.Error("❌ "+capitalize(err.Error())))
		return nil
	default:
		return err
	}
}

// usage prints a usage line and any examples. Missing arguments are not an
// error exit.
func usage(cmd *cobra.Command, line string, examples ...string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Error("❌ Usage: "+line))
	for _, ex := range examples {
		fmt.Fprintln(out, ui.Dim("   "+ex))
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
