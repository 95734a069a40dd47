// Package loading tracks overlapping long running operations behind a single
// indicator. The indicator stays visible until every Show has been matched by
// a Hide.
package loading

import "sync"

// Indicator renders the loading state.
type Indicator interface {
	Show(message, subMessage string)
	Hide()
}

type noopIndicator struct{}

func (noopIndicator) Show(string, string) {}
func (noopIndicator) Hide()               {}

type Manager struct {
	indicator  Indicator
	lock       sync.Mutex
	count      int
	visible    bool
	message    string
	subMessage string
}

func NewManager(indicator Indicator) *Manager {
	if indicator == nil {
		indicator = noopIndicator{}
	}
	return &Manager{indicator: indicator}
}

// Show increments the counter and displays message. The last Show wins.
func (m *Manager) Show(message, subMessage string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.count++
	m.message = message
	m.subMessage = subMessage
	m.visible = true
	m.indicator.Show(message, subMessage)
}

// Update replaces the displayed text without touching the counter.
func (m *Manager) Update(message, subMessage string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.message = message
	m.subMessage = subMessage
	if m.visible {
		m.indicator.Show(message, subMessage)
	}
}

// Hide decrements the counter, never below zero, and hides the indicator once
// it reaches zero.
func (m *Manager) Hide() {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.count > 0 {
		m.count--
	}
	if m.count == 0 && m.visible {
		m.visible = false
		m.indicator.Hide()
	}
}

// Reset hides the indicator whatever the number of pending operations.
func (m *Manager) Reset() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.count = 0
	m.visible = false
	m.indicator.Hide()
}

func (m *Manager) Visible() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.visible
}

func (m *Manager) Count() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.count
}

func (m *Manager) Text() (string, string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.message, m.subMessage
}
