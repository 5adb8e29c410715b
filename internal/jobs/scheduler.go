package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// JobScheduler runs the storefront's periodic maintenance tasks
type JobScheduler struct {
	scheduler gocron.Scheduler
	logger    *logrus.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler with no jobs registered
func NewJobScheduler(logger *logrus.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &JobScheduler{
		scheduler: scheduler,
		logger:    logger,
		jobs:      make(map[string]gocron.Job),
	}, nil
}

// AddJob registers fn to run every interval. A run that overlaps the previous
// one is rescheduled rather than run concurrently.
func (js *JobScheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}

	task := func() {
		start := time.Now()
		entry := js.logger.WithField("job", name)
		if err := fn(context.Background()); err != nil {
			entry.WithError(err).Error("Background job failed")
			return
		}
		entry.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Background job completed")
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}

	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

// RemoveJob removes a job by name
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, ok := js.jobs[name]
	if !ok {
		return fmt.Errorf("job %s not found", name)
	}
	if err := js.scheduler.RemoveJob(job.ID()); err != nil {
		return err
	}
	delete(js.jobs, name)
	return nil
}

// JobNames returns the registered job names in sorted order
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.WithField("jobs", js.JobNames()).Info("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}
