package status

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/polawatHuang/mangaara-backend/internal/server/config"
	"github.com/polawatHuang/mangaara-backend/internal/server/metrics"
)

type fakeMetrics struct {
	total     int64
	lastHour  int
	errsHour  int
	avg       time.Duration
	pcts      map[float64]time.Duration
	errorRate float64
	uptime    time.Duration
}

func (f *fakeMetrics) TotalRequests() int64                           { return f.total }
func (f *fakeMetrics) CountSince(time.Duration) int                   { return f.lastHour }
func (f *fakeMetrics) ErrorsSince(time.Duration) int                  { return f.errsHour }
func (f *fakeMetrics) AverageSince(time.Duration) time.Duration       { return f.avg }
func (f *fakeMetrics) Percentile(p float64) time.Duration             { return f.pcts[p] }
func (f *fakeMetrics) ErrorRate() float64                             { return f.errorRate }
func (f *fakeMetrics) Endpoints() map[string]metrics.EndpointSummary  { return nil }
func (f *fakeMetrics) RecentErrors() []metrics.ErrorEvent             { return nil }
func (f *fakeMetrics) SlowQueries() []metrics.SlowQuery               { return nil }
func (f *fakeMetrics) Uptime() time.Duration                          { return f.uptime }

func newPingableDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.UploadBasePath = t.TempDir()
	cfg.APIVersion = "1.2.3"
	cfg.Environment = config.EnvTest
	return cfg
}

func TestOverall(t *testing.T) {
	dbUp := Check{Status: DatabaseConnected}
	dbDown := Check{Status: DatabaseDisconnected}
	stUp := Check{Status: StorageAccessible}
	stDown := Check{Status: StorageInaccessible}

	require.Equal(t, StateOperational, overall(dbUp, stUp))
	require.Equal(t, StateDegraded, overall(dbUp, stDown))
	require.Equal(t, StateCritical, overall(dbDown, stUp))
	require.Equal(t, StateCritical, overall(dbDown, stDown), "dead datastore dominates")
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusOK, HTTPStatus(StateOperational))
	require.Equal(t, http.StatusServiceUnavailable, HTTPStatus(StateDegraded))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(StateCritical))
}

func TestCheckDatabase(t *testing.T) {
	db, mock := newPingableDB(t)
	r := NewReporter(db, testConfig(t), &fakeMetrics{}, nil)

	mock.ExpectPing()
	c := r.CheckDatabase(context.Background())
	require.Equal(t, "connected", c.Status)

	mock.ExpectPing().WillReturnError(errors.New("gone away"))
	c = r.CheckDatabase(context.Background())
	require.Equal(t, "disconnected", c.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckStorage(t *testing.T) {
	db, _ := newPingableDB(t)
	cfg := testConfig(t)
	r := NewReporter(db, cfg, &fakeMetrics{}, nil)
	require.Equal(t, "accessible", r.CheckStorage().Status)

	cfg.UploadBasePath = "/nonexistent/upload/root"
	require.Equal(t, "inaccessible", r.CheckStorage().Status)
}

func TestReport_DatabaseDown(t *testing.T) {
	db, mock := newPingableDB(t)
	mock.ExpectPing().WillReturnError(errors.New("dial tcp: connection refused"))
	r := NewReporter(db, testConfig(t), &fakeMetrics{}, nil)

	rep := r.Report(context.Background(), false)
	require.Equal(t, "disconnected", rep.Database.Status)
	require.Equal(t, StateCritical, rep.Status)
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(rep.Status))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReport_Fields(t *testing.T) {
	db, mock := newPingableDB(t)
	mock.ExpectPing()

	m := &fakeMetrics{total: 120, lastHour: 40, errsHour: 3, avg: 25 * time.Millisecond, uptime: 90 * time.Second}
	r := NewReporter(db, testConfig(t), m, nil)

	rep := r.Report(context.Background(), false)
	require.Equal(t, StateOperational, rep.Status)
	require.Equal(t, "1.2.3", rep.Version)
	require.Equal(t, config.EnvTest, rep.Environment)
	require.Equal(t, int64(90), rep.UptimeSeconds)
	require.Equal(t, int64(120), rep.Requests.Total)
	require.Equal(t, 40, rep.Requests.LastHour)
	require.Equal(t, 3, rep.Requests.ErrorsLastHour)
	require.Equal(t, int64(25), rep.Requests.AvgResponseMs)
	require.Equal(t, fallbackRoutes, rep.Routes, "no registry wired, fallback table served")
	require.Nil(t, rep.Detail)
}

func TestReport_RouteRegistryPreferred(t *testing.T) {
	db, mock := newPingableDB(t)
	mock.ExpectPing()

	table := []string{"GET /api/custom"}
	r := NewReporter(db, testConfig(t), &fakeMetrics{}, func() []string { return table })

	rep := r.Report(context.Background(), false)
	require.Equal(t, table, rep.Routes)
}

func TestReport_CacheTTL(t *testing.T) {
	db, mock := newPingableDB(t)
	r := NewReporter(db, testConfig(t), &fakeMetrics{}, nil)

	base := time.Now()
	clock := base
	r.now = func() time.Time { return clock }

	mock.ExpectPing()
	first := r.Report(context.Background(), false)

	// within TTL: served from the slot, no second probe
	clock = base.Add(10 * time.Second)
	second := r.Report(context.Background(), false)
	require.Same(t, first, second)
	require.NoError(t, mock.ExpectationsWereMet())

	// past TTL: rebuilt
	mock.ExpectPing()
	clock = base.Add(cacheTTL + time.Second)
	third := r.Report(context.Background(), false)
	require.NotSame(t, first, third)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReport_DetailedBypassesCache(t *testing.T) {
	db, mock := newPingableDB(t)
	m := &fakeMetrics{
		pcts:      map[float64]time.Duration{50: 10 * time.Millisecond, 90: 40 * time.Millisecond, 99: 200 * time.Millisecond},
		errorRate: 0.05,
	}
	cfg := testConfig(t)
	cfg.GitCommit = "abc1234"
	r := NewReporter(db, cfg, m, nil)

	mock.ExpectPing()
	plain := r.Report(context.Background(), false)
	require.Nil(t, plain.Detail)

	// detailed snapshots are always fresh even with a warm cache
	mock.ExpectPing()
	rep := r.Report(context.Background(), true)
	require.NotNil(t, rep.Detail)
	require.Equal(t, int64(10), rep.Detail.Percentiles.P50Ms)
	require.Equal(t, int64(40), rep.Detail.Percentiles.P90Ms)
	require.Equal(t, int64(200), rep.Detail.Percentiles.P99Ms)
	require.Equal(t, 0.05, rep.Detail.ErrorRate)
	require.Equal(t, "abc1234", rep.Detail.Deployment.GitCommit)
	require.NoError(t, mock.ExpectationsWereMet())

	// and they never overwrite the cached plain snapshot
	again := r.Report(context.Background(), false)
	require.Same(t, plain, again)
}
