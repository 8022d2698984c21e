// Package scheduler runs the periodic jobs of the assistant: the background
// email digest, the reminder sweep and the deadline sweep. It wraps
// robfig/cron with named, interval-based jobs that can also be fired on
// demand, and isolates each firing so one panicking or failing job never
// takes down the process or the other jobs.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/maestro-agents/maestro/logging"
)

// Job is a named unit of periodic work.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Entry describes the schedule state of one registered job.
type Entry struct {
	Name     string    `json:"name"`
	Interval string    `json:"interval"`
	Prev     time.Time `json:"prev,omitzero"`
	Next     time.Time `json:"next,omitzero"`
}

// Options configure the Scheduler.
type Options struct {
	// Timeout bounds each firing. Zero means no per-firing timeout.
	Timeout time.Duration
	// Logger for job lifecycle events.
	Logger logging.Logger
}

// Scheduler manages interval jobs on a single cron runner. Jobs registered
// after Start are picked up immediately.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  logging.Logger

	mu   sync.Mutex
	jobs map[string]*managedJob
}

type managedJob struct {
	job     Job
	entryID cron.EntryID
}

// New creates a scheduler. It does not start ticking until Start.
func New(optFns ...func(o *Options)) *Scheduler {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Scheduler{
		cron:    cron.New(),
		timeout: opts.Timeout,
		logger:  opts.Logger,
		jobs:    make(map[string]*managedJob),
	}
}

// Register adds a job firing every job.Interval. Names must be unique.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("scheduler: job needs a name and a run function")
	}
	if job.Interval <= 0 {
		return fmt.Errorf("scheduler: job %s has non-positive interval", job.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("scheduler: job %s already registered", job.Name)
	}

	mj := &managedJob{job: job}
	mj.entryID = s.cron.Schedule(cron.Every(job.Interval), cron.FuncJob(func() {
		s.fire(mj.job)
	}))
	s.jobs[job.Name] = mj

	s.logger.Info("scheduler.job.registered", "job", job.Name, "interval", job.Interval.String())
	return nil
}

// Start begins firing registered jobs on their intervals.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler.started")
}

// Stop halts scheduling and returns a context that is done once in-flight
// firings complete.
func (s *Scheduler) Stop() context.Context {
	ctx := s.cron.Stop()
	s.logger.Info("scheduler.stopped")
	return ctx
}

// Trigger fires the named job immediately, outside its schedule. The firing
// shares the same isolation as scheduled ones.
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	mj, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("scheduler: unknown job %s", name)
	}
	s.logger.Info("scheduler.job.triggered", "job", name)
	s.fire(mj.job)
	return nil
}

// Names returns the registered job names in lexical order.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries reports the schedule state of every job, ordered by name.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]Entry, 0, len(s.jobs))
	for name, mj := range s.jobs {
		ce := s.cron.Entry(mj.entryID)
		entries = append(entries, Entry{
			Name:     name,
			Interval: mj.job.Interval.String(),
			Prev:     ce.Prev,
			Next:     ce.Next,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// fire runs one job firing with panic isolation, timeout and error logging.
func (s *Scheduler) fire(job Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler.job.panic", "job", job.Name, "panic", fmt.Sprint(r))
		}
	}()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Debug("scheduler.job.start", "job", job.Name)
	if err := job.Run(ctx); err != nil {
		s.logger.Error("scheduler.job.error", "job", job.Name, "error", err.Error())
		return
	}
	s.logger.Debug("scheduler.job.done", "job", job.Name, "duration_ms", time.Since(start).Milliseconds())
}
