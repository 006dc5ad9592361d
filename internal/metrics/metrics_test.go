package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_CountsEvents(t *testing.T) {
	r := NewRecorder()
	r.ReconcileEvent(EventRollback)
	r.ReconcileEvent(EventRollback)
	r.PersistOutcome("DUPLICATE")
	r.ObserveUseCase("persist_assessment", 5*time.Millisecond, true)
	r.AddInFlight(2)
	r.AddInFlight(-1)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.reconcileEvents.WithLabelValues(EventRollback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.persistOutcomes.WithLabelValues("DUPLICATE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.useCaseTotal.WithLabelValues("persist_assessment", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.inFlight))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.ReconcileEvent(EventConfirmed)
	r.PersistOutcome("OK")
	r.ObserveUseCase("x", time.Second, false)
	r.AddInFlight(1)
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteTextfile("ignored.prom"))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.PersistOutcome("OK")

	path := filepath.Join(t.TempDir(), "gradebook.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `gradebook_persist_outcomes_total{code="OK"} 1`)
}
