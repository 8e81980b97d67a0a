// Package schedule reruns a job on a five-field cron expression.
package schedule

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/FlipSniper/ebay-review-whisperer/internal/config"
	"github.com/robfig/cron/v3"
)

// Job is one scheduled batch. Its error is logged and the loop continues.
type Job func(ctx context.Context) error

type Loop struct {
	expr  string
	sched cron.Schedule
	loc   *time.Location
	job   Job

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(expr string, loc *time.Location, job Job) (*Loop, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("schedule is empty")
	}
	sched, err := config.ParseSchedule(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule '%s': %w", expr, err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Loop{expr: expr, sched: sched, loc: loc, job: job, now: time.Now, sleep: sleepContext}, nil
}

// Next returns the first activation strictly after t, in the loop's location.
func (l *Loop) Next(t time.Time) time.Time {
	return l.sched.Next(t.In(l.loc))
}

// Run blocks, running the job at every activation until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	log.Printf("schedule started cron=%q tz=%s", l.expr, l.loc)
	for {
		now := l.now().In(l.loc)
		next := l.sched.Next(now)
		wait := next.Sub(now)
		log.Printf("schedule next run at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		if err := l.sleep(ctx, wait); err != nil {
			log.Printf("schedule stopped: %v", err)
			return nil
		}
		if err := l.job(ctx); err != nil {
			log.Printf("schedule run failed err=%v", err)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
