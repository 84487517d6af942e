// Package scheduler runs named, cancellable delayed tasks. It backs the
// deferred-deletion path of interaction messages but has no knowledge of
// messages itself.
//
// Typical usage:
//
//	m := scheduler.NewManager(func(msg string) {
//	    log.Println("TASK:", msg)
//	})
//
//	_ = m.After("delete:123", 5*time.Second, func(ctx context.Context) {
//	    // runs once the delay elapses, unless stopped first
//	})
//
//	// later, if the work became unnecessary...
//	_ = m.Stop("delete:123")
//
// Tasks run in separate goroutines, are removed automatically on completion
// or cancellation, and are best-effort: a pending task is lost if the
// process exits before its delay elapses.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultManager is the global task manager.
var DefaultManager = NewManager(nil)

// StatusReporter receives lifecycle events for tasks.
// Example messages:
//
//	waiting:delete:123
//	cancelled:delete:123
//	done:delete:123
type StatusReporter func(string)

type task struct {
	name   string
	cancel context.CancelFunc
}

// Manager orchestrates scheduling, stopping and tracking delayed tasks.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	tasks    map[string]*task
	Reporter StatusReporter
}

// NewManager creates a new Manager. The reporter callback may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		tasks:    make(map[string]*task),
		Reporter: reporter,
	}
}

// After schedules fn to run once delay elapses and returns immediately.
// If a task with the same name is already pending, an error is returned.
// The context passed to fn is cancelled when the task is stopped, so a
// long-running fn can observe a late Stop.
func (m *Manager) After(name string, delay time.Duration, fn func(ctx context.Context)) error {
	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	if _, exists := m.tasks[name]; exists {
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("task '%s' is already scheduled", name)
	}
	m.tasks[name] = &task{name: name, cancel: cancel}
	m.mu.Unlock()

	go func() {
		defer func() {
			m.mu.Lock()
			delete(m.tasks, name)
			m.mu.Unlock()
		}()

		m.report("waiting:" + name)

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			m.report("cancelled:" + name)
			return
		case <-timer.C:
		}

		fn(ctx)
		m.report("done:" + name)
	}()

	return nil
}

// Stop cancels a pending task by name.
// If the task is not pending, an error is returned.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[name]
	if !ok {
		return fmt.Errorf("task '%s' not scheduled", name)
	}

	t.cancel()
	delete(m.tasks, name)
	return nil
}

// List returns the names of pending tasks.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.tasks))
	for k := range m.tasks {
		out = append(out, k)
	}
	return out
}

// Status returns a human-readable summary of pending tasks.
// Example:
//
//	"Pending tasks: delete:123, delete:456"
//
// If none are pending: "No tasks are pending."
func (m *Manager) Status() string {
	pending := m.List()
	if len(pending) == 0 {
		return "No tasks are pending."
	}
	return fmt.Sprintf("Pending tasks: %s", strings.Join(pending, ", "))
}

// report delivers lifecycle messages to the reporter if present.
func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
