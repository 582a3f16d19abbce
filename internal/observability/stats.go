package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

type StatsSnapshot struct {
	Requests          uint64            `json:"requests"`
	AICalls           uint64            `json:"ai_calls"`
	AIFailures        uint64            `json:"ai_failures"`
	Fallbacks         uint64            `json:"fallbacks"`
	ErrorsTotal       uint64            `json:"errors_total"`
	AISecondsAvg      float64           `json:"ai_seconds_avg"`
	CallsByFlow       map[string]uint64 `json:"calls_by_flow,omitempty"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

// Stats holds in-process counters exposed by the /stats endpoint.
// The zero value is not usable; call NewStats.
type Stats struct {
	requests   atomic.Uint64
	aiCalls    atomic.Uint64
	aiFailures atomic.Uint64
	fallbacks  atomic.Uint64
	errors     atomic.Uint64

	aiCount atomic.Uint64
	aiNanos atomic.Uint64

	mu                sync.Mutex
	callsByFlow       map[string]uint64
	errorsByType      map[string]uint64
	errorsByComponent map[string]uint64
}

func NewStats() *Stats {
	return &Stats{
		callsByFlow:       map[string]uint64{},
		errorsByType:      map[string]uint64{},
		errorsByComponent: map[string]uint64{},
	}
}

func (s *Stats) IncRequest() {
	if s == nil {
		return
	}
	s.requests.Add(1)
}

// ObserveAICall records one LLM flow call and its outcome.
func (s *Stats) ObserveAICall(flow string, took time.Duration, err error) {
	if s == nil {
		return
	}
	if flow == "" {
		flow = "unknown"
	}
	s.aiCalls.Add(1)
	if took > 0 {
		s.aiCount.Add(1)
		s.aiNanos.Add(uint64(took))
	}

	s.mu.Lock()
	s.callsByFlow[flow]++
	s.mu.Unlock()

	if err != nil {
		s.aiFailures.Add(1)
		s.IncError(Classify(err), flow)
	}
}

func (s *Stats) IncFallback() {
	if s == nil {
		return
	}
	s.fallbacks.Add(1)
}

func (s *Stats) IncError(errType, component string) {
	if s == nil {
		return
	}
	if errType == "" {
		errType = ErrorUnknown
	}
	if component == "" {
		component = "unknown"
	}
	s.errors.Add(1)
	s.mu.Lock()
	s.errorsByType[errType]++
	s.errorsByComponent[component]++
	s.mu.Unlock()
}

func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}

	s.mu.Lock()
	flows := copyMap(s.callsByFlow)
	errorsType := copyMap(s.errorsByType)
	errorsComponent := copyMap(s.errorsByComponent)
	s.mu.Unlock()

	count := s.aiCount.Load()
	avg := 0.0
	if count > 0 {
		avg = float64(s.aiNanos.Load()) / float64(count) / 1e9
	}

	return StatsSnapshot{
		Requests:          s.requests.Load(),
		AICalls:           s.aiCalls.Load(),
		AIFailures:        s.aiFailures.Load(),
		Fallbacks:         s.fallbacks.Load(),
		ErrorsTotal:       s.errors.Load(),
		AISecondsAvg:      avg,
		CallsByFlow:       flows,
		ErrorsByType:      errorsType,
		ErrorsByComponent: errorsComponent,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
