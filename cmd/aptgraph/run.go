package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/budova/aptgraph/internal/runner"
	"github.com/budova/aptgraph/internal/server"
	"github.com/budova/aptgraph/internal/watch"
	"github.com/budova/aptgraph/pkg/project"
	"github.com/budova/aptgraph/pkg/store/sqlstore"
	"github.com/budova/aptgraph/pkg/store/xlsxstore"
	"github.com/budova/aptgraph/pkg/summary"
	"github.com/budova/aptgraph/pkg/typecode"
	"github.com/budova/aptgraph/pkg/writeback"
)

type runOptions struct {
	dryRun   bool
	json     bool
	overflow string
}

func runRun(ctx context.Context, a *app, args []string, opts runOptions) error {
	r, err := a.runner(args)
	if err != nil {
		return err
	}
	if opts.overflow != "" {
		p := r.Project()
		p.Overflow = typecode.OverflowPolicy(opts.overflow)
		if err := p.Validate(); err != nil {
			return err
		}
	}

	if opts.dryRun {
		out, err := r.Resolve(ctx)
		if err != nil {
			return err
		}
		return printOutcome(out, opts.json)
	}

	// Interrupts cancel between lots so the batch is rolled back cleanly
	// instead of failing mid-write.
	progress := func(current, max int) bool {
		if !opts.json {
			fmt.Fprintf(os.Stderr, "\rWriting lots %d/%d", current, max)
			if current == max {
				fmt.Fprintln(os.Stderr)
			}
		}
		return ctx.Err() != nil
	}
	out, err := r.Run(context.WithoutCancel(ctx), progress)
	if errors.Is(err, writeback.ErrInvalidSchedule) && out != nil {
		printValidationReport(out.Report)
		return errInvalid
	}
	if err != nil {
		return err
	}
	return printOutcome(out, opts.json)
}

func printOutcome(out *runner.Outcome, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printLots(summary.Build(out.Schedule))
	fmt.Println()
	printValidationReport(out.Report)
	if out.Result != nil {
		fmt.Println()
		printResult(out.Result)
	}
	if !out.Report.Valid {
		return errInvalid
	}
	return nil
}

func runValidate(ctx context.Context, a *app, args []string) error {
	r, err := a.runner(args)
	if err != nil {
		return err
	}
	out, err := r.Resolve(ctx)
	if err != nil {
		return err
	}
	printValidationReport(out.Report)
	if !out.Report.Valid {
		return errInvalid
	}
	return nil
}

func runSummary(ctx context.Context, a *app, args []string, xlsxPath string) error {
	r, err := a.runner(args)
	if err != nil {
		return err
	}
	out, err := r.Resolve(ctx)
	if err != nil {
		return err
	}
	if !out.Report.Valid {
		printValidationReport(out.Report)
		return errInvalid
	}

	report := summary.Build(out.Schedule)
	printSummary(report)
	if xlsxPath != "" {
		if err := summary.ExportXLSX(report, xlsxPath); err != nil {
			return err
		}
		fmt.Printf("\nExported to %s\n", xlsxPath)
	}
	return nil
}

func runServe(a *app, args []string, port int) error {
	r, err := a.runner(args)
	if err != nil {
		return err
	}
	if port == 0 {
		port = a.cfg.Server.Port
	}
	return server.New(r, port, a.cfg.Server.DevMode, a.logger).Start()
}

func runWatch(ctx context.Context, a *app, args []string, apply bool) error {
	r, err := a.runner(args)
	if err != nil {
		return err
	}
	path := r.Project().WatchPath()
	if path == "" {
		return fmt.Errorf("store driver %q has no file to watch", r.Project().Store.Driver)
	}

	handle := func(ctx context.Context) error {
		var (
			out *runner.Outcome
			err error
		)
		if apply {
			out, err = r.Run(ctx, nil)
		} else {
			out, err = r.Resolve(ctx)
		}
		if out != nil {
			printValidationReport(out.Report)
			if out.Result != nil {
				printResult(out.Result)
			}
			fmt.Println()
		}
		return err
	}
	if err := handle(ctx); err != nil {
		a.logger.Sugar().Warnf("initial run failed: %v", err)
	}
	return watch.New(path, a.cfg.Watch.Debounce(), handle, a.logger).Run(ctx)
}

func runInit(dir string) error {
	projectFile := filepath.Join(dir, project.FileName)
	if _, err := os.Stat(projectFile); err == nil {
		return fmt.Errorf("%s already exists", projectFile)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	const workbook = "rooms.xlsx"
	if err := xlsxstore.Create(filepath.Join(dir, workbook), "Rooms", writeback.Attributes{}, nil); err != nil {
		return err
	}
	body := fmt.Sprintf(`version: "1"
name: %s
store:
  driver: xlsx
  path: %s
  sheet: Rooms
overflow: %s
`, filepath.Base(dir), workbook, typecode.OverflowFail)
	if err := os.WriteFile(projectFile, []byte(body), 0644); err != nil {
		return err
	}
	fmt.Printf("Created %s and %s\n", projectFile, filepath.Join(dir, workbook))
	return nil
}

func runHistory(ctx context.Context, a *app, args []string, limit int) error {
	r, err := a.runner(args)
	if err != nil {
		return err
	}
	st, err := r.Project().OpenStore(ctx, a.logger)
	if err != nil {
		return err
	}
	defer st.Close()

	sq, ok := st.(*sqlstore.Store)
	if !ok {
		return fmt.Errorf("store driver %q keeps no run history", r.Project().Store.Driver)
	}
	runs, err := sq.Runs(ctx, limit)
	if err != nil {
		return err
	}
	printRuns(runs)
	return nil
}
