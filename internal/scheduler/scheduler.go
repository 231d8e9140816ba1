package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/robfig/cron/v3"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

var (
	ErrJobNameRequired = errors.New("scheduler: job name is required")
	ErrJobExists       = errors.New("scheduler: job already registered")
	ErrJobNotFound     = errors.New("scheduler: job not found")
	ErrUnsupportedFunc = errors.New("scheduler: unsupported job handler")
)

// JobFunc is the unit of work run on every tick.
type JobFunc func(ctx context.Context) error

type job struct {
	name    string
	spec    string
	run     JobFunc
	entryID cron.EntryID
}

// Scheduler runs named jobs on cron specs. Overlapping runs of the same job
// are skipped and panics are recovered and logged.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	jobs    map[string]*job
	logger  interfaces.Logger
	timeout time.Duration
	running bool
}

// Option customises a Scheduler.
type Option func(*Scheduler)

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithJobTimeout bounds every run. Zero leaves runs unbounded.
func WithJobTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout >= 0 {
			s.timeout = timeout
		}
	}
}

// New returns a stopped scheduler. Specs accept the standard five fields
// and descriptors such as "@every 10m".
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		jobs:    make(map[string]*job),
		logger:  logging.NoOp(),
		timeout: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}

	cronLog := cronLogger{logger: s.logger}
	s.cron = cron.New(cron.WithChain(
		cron.Recover(cronLog),
		cron.SkipIfStillRunning(cronLog),
	), cron.WithLogger(cronLog))
	return s
}

// Add registers a job. An empty spec leaves the job disabled and returns nil.
func (s *Scheduler) Add(name, spec string, run JobFunc) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrJobNameRequired
	}
	if run == nil {
		return fmt.Errorf("%w: %s has no function", ErrUnsupportedFunc, name)
	}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		s.logger.Debug("scheduler.job.disabled", "job", name)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobExists, name)
	}

	entry := &job{name: name, spec: spec, run: run}
	id, err := s.cron.AddFunc(spec, func() {
		_ = s.execute(context.Background(), entry)
	})
	if err != nil {
		return fmt.Errorf("scheduler: job %s: %w", name, err)
	}
	entry.entryID = id
	s.jobs[name] = entry

	s.logger.Info("scheduler.job.registered", "job", name, "spec", spec)
	return nil
}

// Registrar adapts the scheduler to the go-command cron registrar contract
// used by command registries. Handlers may be func() error or JobFunc.
func (s *Scheduler) Registrar(name string) func(command.HandlerConfig, any) error {
	return func(cfg command.HandlerConfig, handler any) error {
		switch fn := handler.(type) {
		case func() error:
			return s.Add(name, cfg.Expression, func(context.Context) error { return fn() })
		case func(context.Context) error:
			return s.Add(name, cfg.Expression, fn)
		case JobFunc:
			return s.Add(name, cfg.Expression, fn)
		default:
			return fmt.Errorf("%w: %T", ErrUnsupportedFunc, handler)
		}
	}
}

// RunNow executes a registered job synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	entry, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.execute(ctx, entry)
}

// Jobs lists registered job names in order.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next reports the next activation of a job once the scheduler is running.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	entry, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	next := s.cron.Entry(entry.entryID).Next
	return next, !next.IsZero()
}

// Start begins running jobs in the background. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("scheduler.started", "jobs", len(s.jobs))
}

// Stop prevents new runs and waits for running jobs or ctx, whichever ends
// first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler.stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) execute(ctx context.Context, entry *job) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logger := logging.WithFields(s.logger, map[string]any{"job": entry.name})
	started := time.Now()
	err := entry.run(ctx)
	elapsed := time.Since(started)
	if err != nil {
		logger.Error("scheduler.job.failed", "error", err, "duration_ms", elapsed.Milliseconds())
		return err
	}
	logger.Debug("scheduler.job.completed", "duration_ms", elapsed.Milliseconds())
	return nil
}

// cronLogger routes robfig/cron diagnostics through the module logger.
type cronLogger struct {
	logger interfaces.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("scheduler.cron."+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("scheduler.cron."+msg, append(keysAndValues, "error", err)...)
}
