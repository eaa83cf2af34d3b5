package status

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/polawatHuang/mangaara-backend/internal/common"
	"github.com/polawatHuang/mangaara-backend/internal/server/config"
	"github.com/polawatHuang/mangaara-backend/internal/server/metrics"
)

const (
	// cacheTTL bounds how stale a plain status snapshot may be. Detailed
	// snapshots are always rebuilt.
	cacheTTL      = 30 * time.Second
	probeTimeout  = 2 * time.Second
	trafficWindow = time.Hour
)

// MetricsSource is the slice of the recorder the reporter reads.
// *metrics.Recorder satisfies it.
type MetricsSource interface {
	TotalRequests() int64
	CountSince(window time.Duration) int
	ErrorsSince(window time.Duration) int
	AverageSince(window time.Duration) time.Duration
	Percentile(p float64) time.Duration
	ErrorRate() float64
	Endpoints() map[string]metrics.EndpointSummary
	RecentErrors() []metrics.ErrorEvent
	SlowQueries() []metrics.SlowQuery
	Uptime() time.Duration
}

// Reporter assembles health snapshots. One instance is shared by the status
// handlers; the plain snapshot is cached in a single slot for cacheTTL.
type Reporter struct {
	db      *sql.DB
	cfg     *config.Config
	metrics MetricsSource
	routes  func() []string
	now     func() time.Time

	mu       sync.Mutex
	cached   *Report
	cachedAt time.Time
}

// NewReporter constructs a Reporter. routes supplies the served route table;
// when it is nil or returns nothing the compiled-in fallback list is used.
func NewReporter(db *sql.DB, cfg *config.Config, m MetricsSource, routes func() []string) *Reporter {
	return &Reporter{db: db, cfg: cfg, metrics: m, routes: routes, now: time.Now}
}

// Report returns a health snapshot. Plain snapshots may be served from the
// cache; detailed ones are always fresh and are never stored.
func (r *Reporter) Report(ctx context.Context, detailed bool) *Report {
	if !detailed {
		r.mu.Lock()
		if r.cached != nil && r.now().Sub(r.cachedAt) < cacheTTL {
			cached := r.cached
			r.mu.Unlock()
			return cached
		}
		r.mu.Unlock()
	}

	rep := r.build(ctx)
	if detailed {
		rep.Detail = r.buildDetail()
		return rep
	}

	r.mu.Lock()
	r.cached = rep
	r.cachedAt = r.now()
	r.mu.Unlock()
	return rep
}

// CheckDatabase probes datastore connectivity and reports latency.
func (r *Reporter) CheckDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := r.now()
	err := r.db.PingContext(ctx)
	latency := time.Since(start)
	if err != nil {
		return Check{Status: DatabaseDisconnected, LatencyMs: latency.Milliseconds()}
	}
	return Check{Status: DatabaseConnected, LatencyMs: latency.Milliseconds()}
}

// CheckStorage probes the upload root with a write/read/delete round trip.
func (r *Reporter) CheckStorage() Check {
	start := r.now()
	ok := r.probeStorage()
	latency := time.Since(start)
	st := StorageAccessible
	if !ok {
		st = StorageInaccessible
	}
	return Check{Status: st, LatencyMs: latency.Milliseconds()}
}

func (r *Reporter) probeStorage() bool {
	suffix, err := common.MakeRandHexString(8)
	if err != nil {
		return false
	}
	path := filepath.Join(r.cfg.UploadBasePath, ".healthcheck-"+suffix)
	payload := []byte("ok")

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return false
	}
	defer os.Remove(path)

	got, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(got, payload) {
		return false
	}
	return true
}

func (r *Reporter) build(ctx context.Context) *Report {
	dbCheck := r.CheckDatabase(ctx)
	stCheck := r.CheckStorage()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	routes := r.routeTable()

	return &Report{
		Status:        overall(dbCheck, stCheck),
		Timestamp:     r.now(),
		UptimeSeconds: int64(r.metrics.Uptime().Seconds()),
		Version:       r.cfg.APIVersion,
		Environment:   r.cfg.Environment,
		Database:      dbCheck,
		Storage:       stCheck,
		Requests: RequestStats{
			Total:          r.metrics.TotalRequests(),
			LastHour:       r.metrics.CountSince(trafficWindow),
			ErrorsLastHour: r.metrics.ErrorsSince(trafficWindow),
			AvgResponseMs:  r.metrics.AverageSince(trafficWindow).Milliseconds(),
		},
		Memory: MemoryStats{
			AllocMB:      ms.Alloc / 1024 / 1024,
			SysMB:        ms.Sys / 1024 / 1024,
			HeapInUseMB:  ms.HeapInuse / 1024 / 1024,
			NumGC:        ms.NumGC,
			NumGoroutine: runtime.NumGoroutine(),
		},
		Routes: routes,
	}
}

func (r *Reporter) buildDetail() *Detail {
	d := &Detail{
		Deployment: Deployment{
			DeployedAt: r.cfg.DeployedAt,
			GitCommit:  r.cfg.GitCommit,
			GoVersion:  runtime.Version(),
		},
		Percentiles: Percentiles{
			P50Ms: r.metrics.Percentile(50).Milliseconds(),
			P90Ms: r.metrics.Percentile(90).Milliseconds(),
			P99Ms: r.metrics.Percentile(99).Milliseconds(),
		},
		ErrorRate:    r.metrics.ErrorRate(),
		Endpoints:    r.metrics.Endpoints(),
		RecentErrors: r.metrics.RecentErrors(),
		SlowQueries:  r.metrics.SlowQueries(),
	}

	if usage, err := disk.Usage(r.cfg.UploadBasePath); err == nil {
		d.Disk = &DiskStats{
			Path:        usage.Path,
			TotalGB:     float64(usage.Total) / (1 << 30),
			FreeGB:      float64(usage.Free) / (1 << 30),
			UsedPercent: usage.UsedPercent,
		}
	}

	host := &HostStats{}
	if vm, err := mem.VirtualMemory(); err == nil {
		host.MemoryUsedPercent = vm.UsedPercent
	}
	if avg, err := load.Avg(); err == nil {
		host.Load1 = &avg.Load1
		host.Load5 = &avg.Load5
		host.Load15 = &avg.Load15
	}
	d.Host = host

	return d
}

func (r *Reporter) routeTable() []string {
	if r.routes != nil {
		if got := r.routes(); len(got) > 0 {
			return got
		}
	}
	return append([]string(nil), fallbackRoutes...)
}

// overall folds probe outcomes into a platform state. A dead datastore is
// critical; a broken upload volume alone only degrades the platform.
func overall(db, storage Check) string {
	if db.Status != DatabaseConnected {
		return StateCritical
	}
	if storage.Status != StorageAccessible {
		return StateDegraded
	}
	return StateOperational
}

// HTTPStatus maps a platform state to the response code of the status
// endpoints.
func HTTPStatus(state string) int {
	switch state {
	case StateCritical:
		return http.StatusInternalServerError
	case StateDegraded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}

// fallbackRoutes is served when the HTTP layer has not registered its route
// table, e.g. in tests that build a bare reporter.
var fallbackRoutes = []string{
	"GET /api/status",
	"GET /api/status/database",
	"GET /api/status/storage",
	"POST /api/auth/register",
	"POST /api/auth/login",
	"POST /api/auth/logout",
	"POST /api/auth/verify",
	"GET /api/manga",
	"GET /api/tags",
}
