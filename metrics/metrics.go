// Package metrics instruments a Head node with github.com/rcrowley/go-metrics,
// replacing the teacher's hand-rolled libs/metric.MetricSet with the real
// ecosystem registry while keeping its label-keyed, JSON-exposable shape
// (grounded on rpc/metric.go's JSONMetrics handler).
package metrics

import (
	gometrics "github.com/rcrowley/go-metrics"

	"headnode/headtypes"
)

// Metrics holds the node's counters and timers (§5, §6.2). The node shell
// updates EventsProcessed, InvalidEvents and the per-kind output counters as
// it drives the transition function and dispatches effects; TxsSeen,
// TxsExpired, SnapshotsConfirmed, RollbacksApplied and SnapshotRoundTime are
// registered and reported by Snapshot, but nothing in this repository
// updates them.
type Metrics struct {
	registry gometrics.Registry

	EventsProcessed    gometrics.Counter
	InvalidEvents      gometrics.Counter
	TxsSeen            gometrics.Counter
	TxsExpired         gometrics.Counter
	SnapshotsConfirmed gometrics.Counter
	RollbacksApplied   gometrics.Counter
	SnapshotRoundTime  gometrics.Timer

	// outputs counts every ServerOutputKind emitted by the core, keyed
	// lazily since the vocabulary is open-ended at the metrics layer.
	outputs gometrics.Registry
}

func NewMetrics() *Metrics {
	registry := gometrics.NewRegistry()
	m := &Metrics{
		registry:           registry,
		EventsProcessed:    gometrics.NewRegisteredCounter("head.events_processed", registry),
		InvalidEvents:      gometrics.NewRegisteredCounter("head.invalid_events", registry),
		TxsSeen:            gometrics.NewRegisteredCounter("head.txs_seen", registry),
		TxsExpired:         gometrics.NewRegisteredCounter("head.txs_expired", registry),
		SnapshotsConfirmed: gometrics.NewRegisteredCounter("head.snapshots_confirmed", registry),
		RollbacksApplied:   gometrics.NewRegisteredCounter("head.rollbacks_applied", registry),
		SnapshotRoundTime:  gometrics.NewRegisteredTimer("head.snapshot_round_time", registry),
		outputs:            gometrics.NewPrefixedChildRegistry(registry, "head.outputs."),
	}
	return m
}

// RecordOutput bumps the per-kind counter for every ServerOutput the core
// emits, so unusual output mixes (e.g. a spike in OutputCommandFailed) show
// up without the node shell having to special-case each kind.
func (m *Metrics) RecordOutput(kind headtypes.ServerOutputKind) {
	gometrics.GetOrRegisterCounter(kind.String(), m.outputs).Inc(1)
}

// Snapshot renders every registered metric as a flat label->value map, the
// same shape rpc.JSONMetrics exposed over the teacher's RPC surface.
func (m *Metrics) Snapshot() map[string]interface{} {
	out := make(map[string]interface{})
	m.registry.Each(func(name string, metric interface{}) {
		out[name] = renderMetric(metric)
	})
	return out
}

func renderMetric(metric interface{}) interface{} {
	switch v := metric.(type) {
	case gometrics.Counter:
		return v.Count()
	case gometrics.Timer:
		return v.Mean()
	case gometrics.Gauge:
		return v.Value()
	default:
		return nil
	}
}
