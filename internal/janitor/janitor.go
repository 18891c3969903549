// Package janitor evicts idle game sessions on a fixed schedule.
package janitor

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Sweeper is implemented by store.Sessions.
type Sweeper interface {
	Sweep(ttl time.Duration) int
	Len() int
}

// Janitor owns the scheduler running the sweep job.
type Janitor struct {
	sched gocron.Scheduler
}

// Start schedules Sweep(ttl) every interval and starts the scheduler.
func Start(s Sweeper, interval, ttl time.Duration, opts ...gocron.SchedulerOption) (*Janitor, error) {
	sched, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { Run(s, ttl) }),
		gocron.WithName("sweep-idle-sessions"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule sweep: %w", err)
	}
	sched.Start()
	return &Janitor{sched: sched}, nil
}

// Run performs one sweep and logs what it evicted.
func Run(s Sweeper, ttl time.Duration) int {
	n := s.Sweep(ttl)
	if n > 0 {
		log.Info().Int("evicted", n).Int("live", s.Len()).Dur("ttl", ttl).Msg("swept idle sessions")
	}
	return n
}

// Stop shuts the scheduler down, waiting for a running sweep to finish.
func (j *Janitor) Stop() error { return j.sched.Shutdown() }
