package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/monster-mashup/internal/metrics"
)

func TestStart_RejectsBadSpec(t *testing.T) {
	_, err := Start(context.Background(), Job{Name: "broken", Spec: "every now and then", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)
}

func TestStart_RunsJobs(t *testing.T) {
	var runs atomic.Int32
	c, err := Start(context.Background(), Job{
		Name: "tick",
		Spec: "@every 1s",
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestPurgeSessions(t *testing.T) {
	before := testutil.ToFloat64(metrics.SessionsPurged)

	run := PurgeSessions(func(context.Context) (int64, error) { return 2, nil })
	require.NoError(t, run(context.Background()))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.SessionsPurged)-before)

	failing := PurgeSessions(func(context.Context) (int64, error) { return 0, errors.New("db gone") })
	assert.ErrorContains(t, failing(context.Background()), "db gone")
}
