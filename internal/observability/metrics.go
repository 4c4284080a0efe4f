package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for sync outcomes and HTTP
// traffic. Snapshot exposes them on the operational API.
type Metrics struct {
	mu           sync.Mutex
	eventCount   map[string]int64
	outcomeCount map[string]int64
	requestCount map[string]int64
	errorCount   map[string]int64
}

// Sync outcome names.
const (
	OutcomeMemberRemoved   = "member_removed"
	OutcomeMirrorCreated   = "mirror_created"
	OutcomeMirrorEdited    = "mirror_edited"
	OutcomeMirrorRecreated = "mirror_recreated"
	OutcomeAlertSent       = "alert_sent"
	OutcomeSweepUnban      = "sweep_unban"
)

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		eventCount:   make(map[string]int64),
		outcomeCount: make(map[string]int64),
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordEvent counts one consumed bus event per topic.
func (m *Metrics) RecordEvent(topic string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCount[topic]++
}

// RecordOutcome counts one applied side effect.
func (m *Metrics) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomeCount[outcome]++
}

// RecordRequest increments counters for HTTP requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments HTTP error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies all counters for serialization.
func (m *Metrics) Snapshot() map[string]map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]map[string]int64{
		"events":   copyCounts(m.eventCount),
		"outcomes": copyCounts(m.outcomeCount),
		"requests": copyCounts(m.requestCount),
		"errors":   copyCounts(m.errorCount),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
