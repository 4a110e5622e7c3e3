// Package clientapi is the client-facing shell (§6.1/§6.2): a JSON-RPC
// surface for submitting ClientInputs, grounded on the teacher's rpc
// package (Environment singleton + Routes table), and a websocket hub that
// pushes every ServerOutput the core emits to subscribed clients.
package clientapi

import (
	"headnode/headtypes"
	"headnode/metrics"
)

var env *Environment

// SetEnvironment installs the Environment the route handlers close over,
// mirroring rpc.SetEnvironment in the teacher.
func SetEnvironment(e *Environment) {
	env = e
}

// Environment wires the client API to the node shell: Submit hands a
// ClientInput to the event loop, Snapshot reads the last-known UTxO set for
// GetUTxO without round-tripping through the loop.
type Environment struct {
	Submit   func(headtypes.ClientInput) error
	Snapshot func() headtypes.UTxO
	Metrics  *metrics.Metrics
}
