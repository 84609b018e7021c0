package pipeline

import (
	"context"
	"time"

	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"

	"battery-scheduler/internal/data"
	"battery-scheduler/internal/model"
)

// DayFunc handles one scheduled day.
type DayFunc func(ctx context.Context, day time.Time) error

const dailyJobKey = "daily-schedule"

// Daily fires a DayFunc on a quartz cron expression
// (seconds minutes hours day-of-month month day-of-week).
type Daily struct {
	trigger *quartz.CronTrigger
	loc     *time.Location
	run     DayFunc
	log     *zap.Logger
}

func NewDaily(expr string, loc *time.Location, run DayFunc, log *zap.Logger) (*Daily, error) {
	trigger, err := quartz.NewCronTriggerWithLoc(expr, loc)
	if err != nil {
		return nil, model.ConfigErrorf("cron %q: %v", expr, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Daily{trigger: trigger, loc: loc, run: run, log: log}, nil
}

// Next returns the first fire time after t.
func (d *Daily) Next(t time.Time) (time.Time, error) {
	next, err := d.trigger.NextFireTime(t.UnixNano())
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, next).In(d.loc), nil
}

// runOnce resolves the day a firing belongs to and runs it. Failures are
// logged; the next firing proceeds regardless.
func (d *Daily) runOnce(ctx context.Context) (time.Time, error) {
	day := data.Today(time.Now(), d.loc)
	if err := d.run(ctx, day); err != nil {
		d.log.Error("scheduled run failed",
			zap.String("date", day.Format(data.DateLayout)),
			zap.Error(err),
		)
		return day, err
	}
	return day, nil
}

// Run schedules the job on a quartz scheduler and blocks until ctx is done.
func (d *Daily) Run(ctx context.Context) error {
	sched := quartz.NewStdScheduler()
	sched.Start(ctx)

	detail := quartz.NewJobDetail(job.NewFunctionJob(d.runOnce), quartz.NewJobKey(dailyJobKey))
	if err := sched.ScheduleJob(detail, d.trigger); err != nil {
		sched.Stop()
		return err
	}
	if next, err := d.Next(time.Now()); err == nil {
		d.log.Info("daily run scheduled", zap.String("cron", d.trigger.Description()), zap.Time("next", next))
	}

	<-ctx.Done()
	sched.Stop()

	waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sched.Wait(waitCtx)
	return nil
}
