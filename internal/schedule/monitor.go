package schedule

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Sweeper republishes every zone's active set.
type Sweeper interface {
	Sweep()
}

// Monitor periodically sweeps all zones so windows that open or close with
// the passage of time reach displays without a mutation.
type Monitor struct {
	scheduler gocron.Scheduler
}

func NewMonitor(interval time.Duration, sweeper Sweeper, opts ...gocron.SchedulerOption) (*Monitor, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}

	opts = append([]gocron.SchedulerOption{gocron.WithLocation(time.UTC)}, opts...)
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			log.Debug().Msg("[schedule] sweeping zones")
			sweeper.Sweep()
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("register sweep job: %w", err)
	}

	return &Monitor{scheduler: s}, nil
}

func (m *Monitor) Start() {
	m.scheduler.Start()
}

func (m *Monitor) Stop() error {
	return m.scheduler.Shutdown()
}
