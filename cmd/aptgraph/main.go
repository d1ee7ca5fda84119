package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/budova/aptgraph/internal/config"
	"github.com/budova/aptgraph/internal/logger"
	"github.com/budova/aptgraph/internal/runner"
	"github.com/budova/aptgraph/pkg/project"
)

// Exit codes.
const (
	exitInvalid = 1
	exitConfig  = 2
)

// app carries what every command needs.
type app struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	logLevel string
}

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "aptgraph",
		Short:         "Apartment schedule engine: lots, areas, labels and type codes for a room store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(summaryCmd(a))
	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(watchCmd(a))
	rootCmd.AddCommand(initCmd(a))
	rootCmd.AddCommand(historyCmd(a))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "aptgraph")
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	a.cfg = cfg
	a.logger = log
	return nil
}

// projectDir picks the positional argument or the configured default.
func (a *app) projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Project.Dir
}

func (a *app) runner(args []string) (*runner.Runner, error) {
	p, err := project.LoadProject(a.projectDir(args))
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return runner.New(p, a.logger), nil
}

// errInvalid marks a completed run whose schedule failed validation.
var errInvalid = errors.New("schedule has validation errors")

func exitCode(err error) int {
	if runner.IsConfigError(err) {
		return exitConfig
	}
	return exitInvalid
}

func runCmd(a *app) *cobra.Command {
	var (
		dryRun   bool
		asJSON   bool
		overflow string
	)
	cmd := &cobra.Command{
		Use:   "run [project-path]",
		Short: "Compute the schedule and write it back to every room",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), a, args, runOptions{dryRun: dryRun, json: asJSON, overflow: overflow})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and print without writing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	cmd.Flags().StringVar(&overflow, "overflow", "", "type-code overflow policy (fail, numbered)")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Check a room store without writing anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), a, args)
		},
	}
}

func summaryCmd(a *app) *cobra.Command {
	var xlsxPath string
	cmd := &cobra.Command{
		Use:   "summary [project-path]",
		Short: "Display totals per department, apartment size and floor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd.Context(), a, args, xlsxPath)
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also export the summary to this workbook")
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the HTTP API for a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runServe(a, args, port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (default from config)")
	return cmd
}

func watchCmd(a *app) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "watch [project-path]",
		Short: "Re-run whenever the room store file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), a, args, apply || a.cfg.Watch.Apply)
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "write back on every change instead of only validating")
	return cmd
}

func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [project-path]",
		Short: "Create a project with an empty room schedule workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInit(a.projectDir(args))
		},
	}
}

func historyCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [project-path]",
		Short: "List recent writeback runs of a SQL store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), a, args, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}
