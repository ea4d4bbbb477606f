package warmer

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/modsearch/pkg/observability"
)

type countingRefresher struct {
	calls atomic.Int32
	repos int
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) (int, error) {
	r.calls.Add(1)
	return r.repos, r.err
}

func testLogger() (*observability.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return observability.NewLogger(observability.DebugLevel, &buf), &buf
}

func TestNew_InvalidSchedule(t *testing.T) {
	logger, _ := testLogger()
	_, err := New(&countingRefresher{}, "every now and then", time.Second, logger, nil)
	assert.Error(t, err)
}

func TestWarmer_RunOnce(t *testing.T) {
	logger, buf := testLogger()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	r := &countingRefresher{repos: 7}

	w, err := New(r, "@every 1h", time.Second, logger, metrics)
	require.NoError(t, err)

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WarmerRunsTotal.WithLabelValues("ok")))
	assert.Equal(t, 7.0, testutil.ToFloat64(metrics.RepositoriesKnown))
	assert.Contains(t, buf.String(), "listings refreshed")

	last, lastErr := w.LastRun()
	assert.False(t, last.IsZero())
	assert.NoError(t, lastErr)
}

func TestWarmer_RunOnceError(t *testing.T) {
	logger, buf := testLogger()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	r := &countingRefresher{err: errors.New("index down")}

	w, err := New(r, "@every 1h", 0, logger, metrics)
	require.NoError(t, err)

	assert.Error(t, w.RunOnce(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WarmerRunsTotal.WithLabelValues("error")))
	assert.Contains(t, buf.String(), "listing refresh failed")

	_, lastErr := w.LastRun()
	assert.Error(t, lastErr)
}

func TestWarmer_StartStop(t *testing.T) {
	logger, _ := testLogger()
	r := &countingRefresher{repos: 1}

	w, err := New(r, "@every 1h", time.Second, logger, nil)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()))

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))
	require.NoError(t, w.Stop(ctx))
}
