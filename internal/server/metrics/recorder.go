package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// Buffer capacities. Response times dominate, errors and slow queries are
// rarer and kept shorter.
const (
	responseTimeCapacity = 1000
	errorCapacity        = 500
	slowQueryCapacity    = 100

	// SlowQueryThreshold marks a datastore statement as slow.
	SlowQueryThreshold = time.Second

	// slowQueryTextLimit caps stored statement text so huge INSERTs do not
	// bloat the buffer.
	slowQueryTextLimit = 200
)

// RequestSample is one completed HTTP request.
type RequestSample struct {
	Method   string
	Path     string
	Status   int
	Duration time.Duration
	At       time.Time
}

// ErrorEvent is one failed request (status >= 400).
type ErrorEvent struct {
	Method  string    `json:"method"`
	Path    string    `json:"path"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// SlowQuery is one datastore statement that crossed SlowQueryThreshold.
type SlowQuery struct {
	Query      string    `json:"query"`
	DurationMs int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

// EndpointSummary aggregates one route's lifetime numbers.
type EndpointSummary struct {
	Count  int64 `json:"count"`
	AvgMs  int64 `json:"avg_response_time_ms"`
	MaxMs  int64 `json:"max_response_time_ms"`
	Errors int64 `json:"error_count"`
}

type endpointStats struct {
	count     int64
	totalTime time.Duration
	maxTime   time.Duration
	errors    int64
}

// Recorder accumulates request metrics behind a single mutex. One instance
// is shared by the middleware, the query observer, and the status reporter;
// nothing here is a package-level global.
type Recorder struct {
	mu        sync.Mutex
	startedAt time.Time

	responses *RingBuffer[RequestSample]
	errors    *RingBuffer[ErrorEvent]
	slow      *RingBuffer[SlowQuery]

	// per-endpoint aggregates, keyed "METHOD /path". Unbounded: the route
	// table is finite so the map is too.
	endpoints map[string]*endpointStats

	totalRequests int64
	totalErrors   int64
}

// NewRecorder returns an empty recorder with the standard buffer sizes.
func NewRecorder() *Recorder {
	return &Recorder{
		startedAt: time.Now(),
		responses: NewRingBuffer[RequestSample](responseTimeCapacity),
		errors:    NewRingBuffer[ErrorEvent](errorCapacity),
		slow:      NewRingBuffer[SlowQuery](slowQueryCapacity),
		endpoints: make(map[string]*endpointStats),
	}
}

// RecordRequest notes one completed request and folds it into the endpoint
// aggregate. Statuses >= 400 count toward the error totals here; the error
// detail buffer is fed separately via RecordError.
func (r *Recorder) RecordRequest(method, path string, status int, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalRequests++
	r.responses.Push(RequestSample{Method: method, Path: path, Status: status, Duration: d, At: time.Now()})

	key := endpointKey(method, path)
	s := r.endpoints[key]
	if s == nil {
		s = &endpointStats{}
		r.endpoints[key] = s
	}
	s.count++
	s.totalTime += d
	if d > s.maxTime {
		s.maxTime = d
	}
	if status >= 400 {
		r.totalErrors++
		s.errors++
	}
}

// RecordError stores the detail of a failed request.
func (r *Recorder) RecordError(method, path string, status int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors.Push(ErrorEvent{Method: method, Path: path, Status: status, Message: message, At: time.Now()})
}

// ObserveQuery implements dbx.QueryObserver. Statements at or above
// SlowQueryThreshold are retained with truncated text.
func (r *Recorder) ObserveQuery(query string, d time.Duration) {
	if d < SlowQueryThreshold {
		return
	}
	text := strings.Join(strings.Fields(query), " ")
	if len(text) > slowQueryTextLimit {
		text = text[:slowQueryTextLimit]
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slow.Push(SlowQuery{Query: text, DurationMs: d.Milliseconds(), At: time.Now()})
}

// Percentile returns the p-th percentile (nearest rank) of the retained
// response times, or 0 when no samples exist.
func (r *Recorder) Percentile(p float64) time.Duration {
	r.mu.Lock()
	samples := r.responses.All()
	r.mu.Unlock()

	if len(samples) == 0 {
		return 0
	}
	durations := make([]time.Duration, len(samples))
	for i, s := range samples {
		durations[i] = s.Duration
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	idx := int(math.Ceil(p/100*float64(len(durations)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(durations) {
		idx = len(durations) - 1
	}
	return durations[idx]
}

// CountSince returns how many retained requests completed within the window.
func (r *Recorder) CountSince(window time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-window)
	n := 0
	for _, s := range r.responses.All() {
		if s.At.After(cutoff) {
			n++
		}
	}
	return n
}

// ErrorsSince returns how many retained error events fall within the window.
func (r *Recorder) ErrorsSince(window time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-window)
	n := 0
	for _, e := range r.errors.All() {
		if e.At.After(cutoff) {
			n++
		}
	}
	return n
}

// AverageSince returns the mean response time over the window, or 0 when the
// window holds no samples.
func (r *Recorder) AverageSince(window time.Duration) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-window)
	var total time.Duration
	n := 0
	for _, s := range r.responses.All() {
		if s.At.After(cutoff) {
			total += s.Duration
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}

// ErrorRate returns lifetime errors over lifetime requests, 0 when idle.
func (r *Recorder) ErrorRate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.totalRequests == 0 {
		return 0
	}
	return float64(r.totalErrors) / float64(r.totalRequests)
}

// TotalRequests returns the lifetime request count.
func (r *Recorder) TotalRequests() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalRequests
}

// Uptime returns how long this recorder (and so the process) has been up.
func (r *Recorder) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.startedAt)
}

// Endpoints returns a copy of the per-route aggregates.
func (r *Recorder) Endpoints() map[string]EndpointSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]EndpointSummary, len(r.endpoints))
	for key, s := range r.endpoints {
		avg := int64(0)
		if s.count > 0 {
			avg = int64(math.Round(float64(s.totalTime.Milliseconds()) / float64(s.count)))
		}
		out[key] = EndpointSummary{
			Count:  s.count,
			AvgMs:  avg,
			MaxMs:  s.maxTime.Milliseconds(),
			Errors: s.errors,
		}
	}
	return out
}

// RecentErrors returns the retained error events, oldest first.
func (r *Recorder) RecentErrors() []ErrorEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors.All()
}

// SlowQueries returns the retained slow statements, oldest first.
func (r *Recorder) SlowQueries() []SlowQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slow.All()
}

// Reset drops every buffer and aggregate but keeps the start time, so uptime
// survives a metrics reset.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses.Reset()
	r.errors.Reset()
	r.slow.Reset()
	r.endpoints = make(map[string]*endpointStats)
	r.totalRequests = 0
	r.totalErrors = 0
}

func endpointKey(method, path string) string {
	return fmt.Sprintf("%s %s", method, path)
}
