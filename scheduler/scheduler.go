package scheduler

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskFn is the function signature for scheduled tasks.
type TaskFn func()

// Scheduler runs named periodic and one-shot tasks. Registering a name that
// already exists replaces the previous task.
type Scheduler struct {
	mu       sync.Mutex
	periodic map[string]chan struct{} // name → per-task stop channel
	oneshot  map[string]*time.Timer
	logger   *zap.Logger
	done     chan struct{}
}

// New creates a new Scheduler.
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		periodic: make(map[string]chan struct{}),
		oneshot:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// run executes fn, recovering a panic so one bad tick cannot kill the task
// goroutine.
func (s *Scheduler) run(name string, fn TaskFn) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler task panicked",
				zap.String("task", name),
				zap.Any("recover", r))
		}
	}()
	fn()
}

// AddTicker registers a task to run on a fixed interval.
func (s *Scheduler) AddTicker(name string, interval time.Duration, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stop, ok := s.periodic[name]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	s.periodic[name] = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.run(name, fn)
			case <-stop:
				return
			case <-s.done:
				return
			}
		}
	}()
	s.logger.Info("scheduler task registered",
		zap.String("name", name), zap.Duration("interval", interval))
}

// AddDelay runs fn once after the given delay.
func (s *Scheduler) AddDelay(name string, delay time.Duration, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.oneshot[name]; ok {
		timer.Stop()
	}
	s.oneshot[name] = time.AfterFunc(delay, func() {
		defer func() {
			s.mu.Lock()
			delete(s.oneshot, name)
			s.mu.Unlock()
		}()
		s.run(name, fn)
	})
}

// Remove stops and removes a ticker or delay task by name.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.periodic[name]; ok {
		close(stop)
		delete(s.periodic, name)
	}
	if timer, ok := s.oneshot[name]; ok {
		timer.Stop()
		delete(s.oneshot, name)
	}
}

// Stop halts every task. Safe to call more than once.
func (s *Scheduler) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// ListTickers returns the names of all registered ticker tasks.
func (s *Scheduler) ListTickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.periodic))
	for name := range s.periodic {
		names = append(names, name)
	}
	return names
}
