// Package toast keeps a stack of short lived notifications.
package toast

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/arismemo/quotation/internal/config"
	"github.com/arismemo/quotation/internal/metrics"
)

var ErrUnknownSeverity = errors.New("unknown toast severity")

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func (s Severity) Valid() bool {
	switch s {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

type Toast struct {
	ID        uint64
	Message   string
	Severity  Severity
	Duration  time.Duration
	CreatedAt time.Time
}

// Sink renders toasts as they are added to and removed from the stack.
type Sink interface {
	Add(toast Toast)
	Remove(toast Toast)
}

type noopSink struct{}

func (noopSink) Add(Toast)    {}
func (noopSink) Remove(Toast) {}

type Manager struct {
	sink            Sink
	metrics         *metrics.Metrics
	defaultDuration time.Duration
	now             func() time.Time

	lock   sync.Mutex
	nextID uint64
	active []Toast
	timers map[uint64]*time.Timer
}

// NewManager creates a manager. A zero defaultDuration means
// config.ToastDuration.
func NewManager(sink Sink, defaultDuration time.Duration, m *metrics.Metrics) *Manager {
	if sink == nil {
		sink = noopSink{}
	}
	if defaultDuration <= 0 {
		defaultDuration = config.ToastDuration
	}
	if m == nil {
		m = metrics.New(nil)
	}

	return &Manager{
		sink:            sink,
		metrics:         m,
		defaultDuration: defaultDuration,
		now:             time.Now,
		timers:          make(map[uint64]*time.Timer),
	}
}

// Show pushes a toast on the stack and removes it after duration. A zero
// duration keeps it until Dismiss.
func (m *Manager) Show(message string, severity Severity, duration time.Duration) (Toast, error) {
	if !severity.Valid() {
		return Toast{}, fmt.Errorf("%w: %q", ErrUnknownSeverity, severity)
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.nextID++
	toast := Toast{
		ID:        m.nextID,
		Message:   message,
		Severity:  severity,
		Duration:  duration,
		CreatedAt: m.now(),
	}
	m.active = append(m.active, toast)

	if duration > 0 {
		id := toast.ID
		m.timers[id] = time.AfterFunc(duration, func() { m.Dismiss(id) })
	}

	m.metrics.Toasts.WithLabelValues(string(severity)).Inc()
	m.sink.Add(toast)
	return toast, nil
}

func (m *Manager) show(message string, severity Severity) Toast {
	// severity is always one of ours here
	toast, _ := m.Show(message, severity, m.defaultDuration)
	return toast
}

func (m *Manager) Success(message string) Toast {
	return m.show(message, SeveritySuccess)
}

func (m *Manager) Error(message string) Toast {
	return m.show(message, SeverityError)
}

func (m *Manager) Warning(message string) Toast {
	return m.show(message, SeverityWarning)
}

func (m *Manager) Info(message string) Toast {
	return m.show(message, SeverityInfo)
}

// Dismiss removes the toast early. It reports whether the toast was still
// shown.
func (m *Manager) Dismiss(id uint64) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	idx := slices.IndexFunc(m.active, func(t Toast) bool { return t.ID == id })
	if idx < 0 {
		return false
	}

	toast := m.active[idx]
	m.active = slices.Delete(m.active, idx, idx+1)
	if timer, ok := m.timers[id]; ok {
		timer.Stop()
		delete(m.timers, id)
	}

	m.sink.Remove(toast)
	return true
}

// Active returns the toasts currently shown, oldest first.
func (m *Manager) Active() []Toast {
	m.lock.Lock()
	defer m.lock.Unlock()
	return slices.Clone(m.active)
}

// Close stops every pending removal. Toasts still shown stay on the stack.
func (m *Manager) Close() {
	m.lock.Lock()
	defer m.lock.Unlock()

	for id, timer := range m.timers {
		timer.Stop()
		delete(m.timers, id)
	}
}
