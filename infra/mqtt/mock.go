package mqtt

import (
	"sync"

	"github.com/uptimeworks/predmaint/core/events"
)

// MockNotifier records events in memory. Used in tests.
type MockNotifier struct {
	mu     sync.Mutex
	Events []events.Event
	Err    error
}

// Notify records the event or returns the configured error.
func (m *MockNotifier) Notify(ev events.Event) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	m.Events = append(m.Events, ev)
	m.mu.Unlock()
	return nil
}

// Close implements Notifier.
func (m *MockNotifier) Close() {}

// Count returns the number of recorded events.
func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events)
}
