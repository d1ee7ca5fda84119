package writeback

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/budova/aptgraph/pkg/lot"
	"github.com/budova/aptgraph/pkg/room"
	"github.com/budova/aptgraph/pkg/schedule"
)

// Driver reads rooms from an accessor and writes schedule values back.
type Driver struct {
	acc    Accessor
	attrs  Attributes
	logger *zap.Logger
}

// NewDriver creates a driver. Empty attribute names fall back to defaults.
func NewDriver(acc Accessor, attrs Attributes, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		acc:    acc,
		attrs:  attrs.WithDefaults(),
		logger: logger,
	}
}

// Result describes what a writeback did.
type Result struct {
	ScheduleID string `json:"schedule_id"`
	Lots       int    `json:"lots"`
	Rooms      int    `json:"rooms"`
	Writes     int    `json:"writes"`
	Canceled   bool   `json:"canceled"`
}

// Apply writes every derived value onto every room in one unit of work.
// progress is consulted after each lot; a cancel request rolls the whole
// batch back and is reported as Result.Canceled with a nil error. Any write
// failure also rolls back and returns an error wrapping ErrWrite. A
// schedule that did not resolve cleanly is refused with ErrInvalidSchedule
// before anything is opened.
func (d *Driver) Apply(ctx context.Context, sched *schedule.Schedule, progress ProgressFunc) (Result, error) {
	res := Result{ScheduleID: sched.ID}
	if !sched.Valid || sched.TypeCodes == nil {
		return res, ErrInvalidSchedule
	}

	uow, err := d.acc.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("beginning unit of work: %w", err)
	}

	total := len(sched.Lots)
	for i, l := range sched.Lots {
		if err := ctx.Err(); err != nil {
			return d.abort(uow, res, fmt.Errorf("%w: %w", ErrWrite, err))
		}

		m := l.Snapshot()
		code := sched.TypeCode(l.Number)
		for _, r := range l.Rooms {
			n, err := d.writeRoom(ctx, uow, r, m, code)
			res.Writes += n
			if err != nil {
				return d.abort(uow, res, err)
			}
			res.Rooms++
		}
		res.Lots++

		if progress != nil && progress(i+1, total) {
			d.logger.Info("writeback canceled",
				zap.String("schedule_id", sched.ID),
				zap.Int("lots_written", res.Lots),
				zap.Int("lots_total", total))
			if err := uow.Rollback(); err != nil {
				return res, fmt.Errorf("rolling back canceled batch: %w", err)
			}
			return Result{ScheduleID: sched.ID, Canceled: true}, nil
		}
	}

	if err := uow.Commit(); err != nil {
		_ = uow.Rollback()
		return Result{ScheduleID: sched.ID}, fmt.Errorf("%w: commit: %w", ErrWrite, err)
	}

	d.logger.Info("writeback committed",
		zap.String("schedule_id", sched.ID),
		zap.Int("lots", res.Lots),
		zap.Int("rooms", res.Rooms),
		zap.Int("writes", res.Writes))
	return res, nil
}

func (d *Driver) abort(uow UnitOfWork, res Result, cause error) (Result, error) {
	d.logger.Error("writeback failed; rolling back",
		zap.String("schedule_id", res.ScheduleID),
		zap.Int("lots_written", res.Lots),
		zap.Error(cause))
	if err := uow.Rollback(); err != nil {
		cause = errors.Join(cause, fmt.Errorf("rollback: %w", err))
	}
	return Result{ScheduleID: res.ScheduleID}, cause
}

type write struct {
	name  string
	value any
}

// roomWrites lists the values for one room. Both living-area slots carry
// the non-sales living area.
func (d *Driver) roomWrites(r room.Room, m lot.Metrics, code string) []write {
	a := d.attrs
	return []write{
		{a.LivingRoomCount, m.LivingRoomCount},
		{a.AreaFactor, r.AreaFactor()},
		{a.AreaWithFactor, r.AreaWithFactor()},
		{a.RoomSalesArea, r.AreaSalesWithFactor()},
		{a.ApartmentArea, m.Area},
		{a.LivingArea, m.LivingArea},
		{a.LivingAreaSales, m.LivingArea},
		{a.GeneralArea, m.GeneralArea},
		{a.GeneralAreaSales, m.GeneralSalesArea},
		{a.RoomIndex, r.Index()},
		{a.Department, m.Department},
		{a.Occupancy, m.Occupancy},
		{a.ApartmentType, code},
	}
}

func (d *Driver) writeRoom(ctx context.Context, uow UnitOfWork, r room.Room, m lot.Metrics, code string) (int, error) {
	n := 0
	for _, w := range d.roomWrites(r, m, code) {
		if err := uow.SetAttribute(ctx, r.Record, w.name, w.value); err != nil {
			return n, fmt.Errorf("%w: room %s, %s: %w", ErrWrite, r.ID(), w.name, err)
		}
		n++
	}
	return n, nil
}
