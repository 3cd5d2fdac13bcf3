package testutil

import (
	"sync"
	"time"

	"github.com/Collins-II/loudear-music-sub000/internal/providers"
	"github.com/Collins-II/loudear-music-sub000/internal/realtime"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and counts
// the calls the tests care about.
type MockMetrics struct {
	mu              sync.Mutex
	Recomputes      map[string]int
	Published       map[string]int
	Dropped         int
	CatalogSizes    map[string]int
	RealtimeClients int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Recomputes:   make(map[string]int),
		Published:    make(map[string]int),
		CatalogSizes: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration)       {}

func (m *MockMetrics) SetCatalogSize(category string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CatalogSizes[category] = count
}

func (m *MockMetrics) IncSnapshotRecomputes(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Recomputes[category]++
}

func (m *MockMetrics) IncBroadcastsPublished(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published[event]++
}

func (m *MockMetrics) IncBroadcastsDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dropped++
}

func (m *MockMetrics) SetRealtimeClients(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RealtimeClients = count
}

// MockBroadcaster implements realtime.BroadcasterInterface and records
// every publish.
type MockBroadcaster struct {
	mu        sync.Mutex
	Published []PublishedEvent
}

type PublishedEvent struct {
	Room  string
	Event realtime.Event
}

func (m *MockBroadcaster) Publish(room string, event realtime.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, PublishedEvent{Room: room, Event: event})
}

func (m *MockBroadcaster) Subscribe(_ string) chan []byte      { return nil }
func (m *MockBroadcaster) Unsubscribe(_ string, _ chan []byte) {}
func (m *MockBroadcaster) ClientCount() int                    { return 0 }

func (m *MockBroadcaster) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.Published...)
}
