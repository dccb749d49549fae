package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/profile", "GET", 307, time.Millisecond)
	m.RecordRequest("/profile", "GET", 307, time.Millisecond)
	m.RecordError("/orders", "GET", "NOT_FOUND")
	m.RecordDecision("redirect", "sign_in_required")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/profile|GET|307"])
	assert.Equal(t, int64(1), snap.Errors["/orders|GET|NOT_FOUND"])
	assert.Equal(t, int64(1), snap.Decisions["redirect|sign_in_required"])

	snap.Decisions["redirect|sign_in_required"] = 99
	assert.Equal(t, int64(1), m.Snapshot().Decisions["redirect|sign_in_required"])
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, 0)
		m.RecordError("/", "GET", "X")
		m.RecordDecision("pass", "public")
	})
	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestMetrics_ConcurrentDecisions(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordDecision("pass", "authorized")
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), m.Snapshot().Decisions["pass|authorized"])
}
