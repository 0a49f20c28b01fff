package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordActionMetric(t *testing.T) {
	actionsTotal.Reset()
	actionDuration.Reset()

	recordActionMetric("CopyPaths", "success", 0.2)
	recordActionMetric("CopyPaths", "fault", 1.5)
	recordActionMetric("CopyPaths", "success", 0.1)

	counter, err := actionsTotal.GetMetricWithLabelValues("CopyPaths", "success")
	require.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))

	_, err = actionDuration.GetMetricWithLabelValues("CopyPaths")
	assert.NoError(t, err)
}

func TestRecordEntryMetric(t *testing.T) {
	entriesTotal.Reset()
	before := testutil.ToFloat64(deleteAttemptsTotal)

	recordEntryMetric("DeletePaths", "gave_up", 11)
	recordEntryMetric("DeletePaths", "missing", 0)

	assert.Equal(t, float64(1), testutil.ToFloat64(entriesTotal.WithLabelValues("DeletePaths", "gave_up")))
	assert.Equal(t, before+11, testutil.ToFloat64(deleteAttemptsTotal))
}

func TestWriteMetrics(t *testing.T) {
	transitionsTotal.Reset()
	recordTransitionMetric("jump")

	path := filepath.Join(t.TempDir(), "modsetup.prom")
	require.NoError(t, WriteMetrics(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `modsetup_engine_transitions_total{type="jump"} 1`)
}
