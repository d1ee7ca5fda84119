// Package runner ties a project to the schedule pipeline: open the store,
// read rooms, resolve the schedule and optionally write it back.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/budova/aptgraph/pkg/project"
	"github.com/budova/aptgraph/pkg/schedule"
	"github.com/budova/aptgraph/pkg/store/sqlstore"
	"github.com/budova/aptgraph/pkg/validation"
	"github.com/budova/aptgraph/pkg/writeback"
)

// Outcome is everything one invocation produced.
type Outcome struct {
	Schedule *schedule.Schedule `json:"schedule"`
	Report   *validation.Report `json:"validation"`
	Result   *writeback.Result  `json:"result,omitempty"`
}

// runRecorder is implemented by stores that keep a run log.
type runRecorder interface {
	RecordRun(ctx context.Context, r sqlstore.Run) error
}

// Runner executes the pipeline for one project.
type Runner struct {
	project *project.Project
	logger  *zap.Logger
}

func New(p *project.Project, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{project: p, logger: logger}
}

// Project returns the project the runner works on.
func (r *Runner) Project() *project.Project { return r.project }

// Resolve reads the store and computes the schedule without writing.
func (r *Runner) Resolve(ctx context.Context) (*Outcome, error) {
	st, err := r.project.OpenStore(ctx, r.logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	return r.resolve(ctx, writeback.NewDriver(st, r.project.Attributes, r.logger))
}

func (r *Runner) resolve(ctx context.Context, d *writeback.Driver) (*Outcome, error) {
	rooms, err := d.ReadRooms(ctx)
	if err != nil {
		return nil, err
	}
	sched, report := schedule.Resolve(rooms, r.project.Options())
	r.logger.Info("schedule resolved",
		zap.String("schedule_id", sched.ID),
		zap.Int("rooms", sched.RoomCount),
		zap.Int("lots", len(sched.Lots)),
		zap.String("validation", report.Summary))
	return &Outcome{Schedule: sched, Report: report}, nil
}

// Run resolves the schedule and writes it back. A schedule with validation
// errors is not written; the outcome is still returned with an error
// wrapping writeback.ErrInvalidSchedule.
func (r *Runner) Run(ctx context.Context, progress writeback.ProgressFunc) (*Outcome, error) {
	st, err := r.project.OpenStore(ctx, r.logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	d := writeback.NewDriver(st, r.project.Attributes, r.logger)
	out, err := r.resolve(ctx, d)
	if err != nil {
		return nil, err
	}
	if !out.Report.Valid {
		return out, fmt.Errorf("%w: %w", writeback.ErrInvalidSchedule, out.Report.Err())
	}

	started := time.Now()
	res, err := d.Apply(ctx, out.Schedule, progress)
	out.Result = &res
	if err != nil {
		out.Report.AddError(validation.Result{
			Level:       validation.LevelWriteback,
			Message:     err.Error(),
			Suggestions: []string{"Nothing was written; fix the store and run again"},
		})
	}
	r.record(st, started, res, err)
	return out, err
}

func (r *Runner) record(st project.Store, started time.Time, res writeback.Result, applyErr error) {
	rec, ok := st.(runRecorder)
	if !ok {
		return
	}
	run := sqlstore.Run{
		ID:         res.ScheduleID,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Status:     sqlstore.RunCommitted,
		Lots:       res.Lots,
		Rooms:      res.Rooms,
		Writes:     res.Writes,
	}
	switch {
	case applyErr != nil:
		run.Status = sqlstore.RunFailed
		run.Message = applyErr.Error()
	case res.Canceled:
		run.Status = sqlstore.RunCanceled
	}
	// The run log outlives the request context.
	if err := rec.RecordRun(context.Background(), run); err != nil {
		r.logger.Warn("failed to record run", zap.String("schedule_id", run.ID), zap.Error(err))
	}
}

// IsConfigError reports whether err comes from a store that cannot be
// processed at all, as opposed to a failed write.
func IsConfigError(err error) bool {
	return errors.Is(err, writeback.ErrNoRooms) ||
		errors.Is(err, writeback.ErrMissingSchema) ||
		errors.Is(err, project.ErrInvalidProject)
}
