package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"headnode/headtypes"
)

func TestCountersStartAtZero(t *testing.T) {
	m := NewMetrics()
	assert.EqualValues(t, 0, m.EventsProcessed.Count())
	assert.EqualValues(t, 0, m.TxsSeen.Count())
}

func TestRecordOutputIncrementsPerKindCounter(t *testing.T) {
	m := NewMetrics()

	m.RecordOutput(headtypes.OutputHeadIsOpen)
	m.RecordOutput(headtypes.OutputHeadIsOpen)
	m.RecordOutput(headtypes.OutputTxValid)

	snap := m.Snapshot()
	assert.EqualValues(t, int64(2), snap["head.outputs."+headtypes.OutputHeadIsOpen.String()])
	assert.EqualValues(t, int64(1), snap["head.outputs."+headtypes.OutputTxValid.String()])
}

func TestSnapshotIncludesRegisteredCounters(t *testing.T) {
	m := NewMetrics()
	m.EventsProcessed.Inc(5)

	snap := m.Snapshot()
	assert.EqualValues(t, int64(5), snap["head.events_processed"])
}
