package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisputeCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	dc := NewDisputeCollector(registry)

	dc.OnEventReceived("Queried")
	dc.OnEventReceived("Queried")
	dc.OnEventIgnored("StartChallenge")
	dc.OnResponseSent("report")
	dc.ActiveChallenges(3)
	dc.TransactionSubmitted("report", 250*time.Millisecond)
	dc.TaskSolved(1024, true)
	dc.StepCacheHit()

	assert.Equal(t, float64(2), testutil.ToFloat64(dc.eventsReceived.WithLabelValues("Queried")))
	assert.Equal(t, float64(1), testutil.ToFloat64(dc.eventsIgnored.WithLabelValues("StartChallenge")))
	assert.Equal(t, float64(1), testutil.ToFloat64(dc.responsesSent.WithLabelValues("report")))
	assert.Equal(t, float64(3), testutil.ToFloat64(dc.activeChallenges))
	assert.Equal(t, float64(1), testutil.ToFloat64(dc.tasksSolved.WithLabelValues(OutcomeDegraded)))
	assert.Equal(t, float64(1), testutil.ToFloat64(dc.stepCacheHits))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
