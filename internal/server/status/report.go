// Package status builds platform health snapshots: datastore and storage
// probes, request statistics from the metrics recorder, and host numbers for
// the detailed view. Probe failures are reported as states only; error text
// from drivers or the filesystem never appears in a report.
package status

import (
	"time"

	"github.com/polawatHuang/mangaara-backend/internal/server/metrics"
)

// Overall platform states, ordered by severity.
const (
	StateOperational = "operational"
	StateDegraded    = "degraded"
	StateCritical    = "critical"
)

// Probe outcomes. Each dependency reports in its own vocabulary so the
// document reads naturally: the datastore is connected or not, the upload
// volume is accessible or not.
const (
	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
	StorageAccessible    = "accessible"
	StorageInaccessible  = "inaccessible"
)

// Check is one dependency probe outcome.
type Check struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
}

// RequestStats summarizes recent traffic.
type RequestStats struct {
	Total          int64 `json:"total"`
	LastHour       int   `json:"last_hour"`
	ErrorsLastHour int   `json:"errors_last_hour"`
	AvgResponseMs  int64 `json:"avg_response_time_ms"`
}

// MemoryStats is the Go runtime's view of the process heap.
type MemoryStats struct {
	AllocMB      uint64 `json:"alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
	HeapInUseMB  uint64 `json:"heap_in_use_mb"`
	NumGC        uint32 `json:"num_gc"`
	NumGoroutine int    `json:"num_goroutine"`
}

// Report is the health snapshot returned by the status endpoints.
type Report struct {
	Status        string       `json:"status"`
	Timestamp     time.Time    `json:"timestamp"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	Version       string       `json:"version"`
	Environment   string       `json:"environment"`
	Database      Check        `json:"database"`
	Storage       Check        `json:"storage"`
	Requests      RequestStats `json:"requests"`
	Memory        MemoryStats  `json:"memory"`
	Routes        []string     `json:"routes"`
	Detail        *Detail      `json:"detail,omitempty"`
}

// Deployment identifies the running build.
type Deployment struct {
	DeployedAt string `json:"deployed_at"`
	GitCommit  string `json:"git_commit"`
	GoVersion  string `json:"go_version"`
}

// Percentiles are nearest-rank response-time percentiles in milliseconds.
type Percentiles struct {
	P50Ms int64 `json:"p50_ms"`
	P90Ms int64 `json:"p90_ms"`
	P99Ms int64 `json:"p99_ms"`
}

// DiskStats describes the volume holding the upload root.
type DiskStats struct {
	Path        string  `json:"path"`
	TotalGB     float64 `json:"total_gb"`
	FreeGB      float64 `json:"free_gb"`
	UsedPercent float64 `json:"used_percent"`
}

// HostStats are machine-level numbers from the detailed view.
type HostStats struct {
	MemoryUsedPercent float64  `json:"memory_used_percent"`
	Load1             *float64 `json:"load_1,omitempty"`
	Load5             *float64 `json:"load_5,omitempty"`
	Load15            *float64 `json:"load_15,omitempty"`
}

// Detail extends a Report for operators. It is never cached.
type Detail struct {
	Deployment   Deployment                         `json:"deployment"`
	Percentiles  Percentiles                        `json:"percentiles"`
	ErrorRate    float64                            `json:"error_rate"`
	Endpoints    map[string]metrics.EndpointSummary `json:"endpoints"`
	RecentErrors []metrics.ErrorEvent               `json:"recent_errors"`
	SlowQueries  []metrics.SlowQuery                `json:"slow_queries"`
	Disk         *DiskStats                         `json:"disk,omitempty"`
	Host         *HostStats                         `json:"host,omitempty"`
}
