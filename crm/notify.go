// ABOUTME: Due-soon task detection and the periodic check that surfaces it
// ABOUTME: Each tick replaces the whole notification set; nothing is remembered between ticks
package crm

import (
	"context"
	"sync"
	"time"

	"github.com/harperreed/amil/models"
)

const (
	DefaultNotifyInterval = time.Minute
	DefaultNotifyWindow   = time.Hour
)

// DueSoon returns incomplete tasks with 0 < due-now <= window.
func DueSoon(tasks []models.Task, now time.Time, window time.Duration) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Status == models.TaskCompleted {
			continue
		}
		until := t.DueDate.Sub(now)
		if until > 0 && until <= window {
			out = append(out, t)
		}
	}
	return out
}

// Notifier recomputes the due-soon set on a fixed cadence while running.
type Notifier struct {
	Interval time.Duration
	Window   time.Duration

	source func() []models.Task
	now    func() time.Time
	notify func([]models.Task)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewNotifier polls source and hands each fresh set to notify.
func NewNotifier(source func() []models.Task, notify func([]models.Task)) *Notifier {
	return &Notifier{
		Interval: DefaultNotifyInterval,
		Window:   DefaultNotifyWindow,
		source:   source,
		now:      time.Now,
		notify:   notify,
	}
}

// ForService builds a notifier reading the service's tasks and clock.
func ForService(s *Service, notify func([]models.Task)) *Notifier {
	n := NewNotifier(func() []models.Task { return s.Tasks(TaskFilter{}) }, notify)
	n.now = s.Now
	return n
}

// Check computes one notification set without notifying.
func (n *Notifier) Check() []models.Task {
	window := n.Window
	if window <= 0 {
		window = DefaultNotifyWindow
	}
	return DueSoon(n.source(), n.now(), window)
}

// Run checks immediately and then every Interval until ctx is done. Checks
// run on the calling goroutine so they never overlap.
func (n *Notifier) Run(ctx context.Context) {
	interval := n.Interval
	if interval <= 0 {
		interval = DefaultNotifyInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	n.notify(n.Check())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.notify(n.Check())
		}
	}
}

// Start runs the notifier in the background. Calling it twice is a no-op.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	n.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		n.Run(ctx)
	}(n.done)
}

// Stop cancels the background loop and waits for it to exit.
func (n *Notifier) Stop() {
	n.mu.Lock()
	cancel, done := n.cancel, n.done
	n.cancel, n.done = nil, nil
	n.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
