package clientapi

import (
	"encoding/json"

	rpctypes "github.com/tendermint/tendermint/rpc/jsonrpc/types"

	"headnode/headtypes"
	"headnode/ledger"
)

// NewTx submits an L2 transaction for gossip and inclusion in the next
// snapshot (§6.1 InputNewTx). txJSON is a JSON-encoded ledger.Tx.
func NewTx(ctx *rpctypes.Context, txJSON json.RawMessage) (*ResultAck, error) {
	var tx ledger.Tx
	if err := json.Unmarshal(txJSON, &tx); err != nil {
		return nil, err
	}
	if err := env.Submit(headtypes.ClientInput{Kind: headtypes.InputNewTx, Tx: tx}); err != nil {
		return nil, err
	}
	return &ResultAck{}, nil
}

// Commit submits a party's commit UTxO (§6.1 InputCommit).
func Commit(ctx *rpctypes.Context, utxoJSON json.RawMessage) (*ResultAck, error) {
	var utxo ledger.UTxO
	if err := json.Unmarshal(utxoJSON, &utxo); err != nil {
		return nil, err
	}
	if err := env.Submit(headtypes.ClientInput{Kind: headtypes.InputCommit, CommitUTxO: utxo}); err != nil {
		return nil, err
	}
	return &ResultAck{}, nil
}

func Init(ctx *rpctypes.Context) (*ResultAck, error) {
	return simpleInput(headtypes.InputInit)
}

func Abort(ctx *rpctypes.Context) (*ResultAck, error) {
	return simpleInput(headtypes.InputAbort)
}

func Close(ctx *rpctypes.Context) (*ResultAck, error) {
	return simpleInput(headtypes.InputClose)
}

func Contest(ctx *rpctypes.Context) (*ResultAck, error) {
	return simpleInput(headtypes.InputContest)
}

func Fanout(ctx *rpctypes.Context) (*ResultAck, error) {
	return simpleInput(headtypes.InputFanout)
}

func GetUTxO(ctx *rpctypes.Context) (*ResultUTxO, error) {
	if err := env.Submit(headtypes.ClientInput{Kind: headtypes.InputGetUTxO}); err != nil {
		return nil, err
	}
	return &ResultUTxO{UTxO: env.Snapshot()}, nil
}

// Metrics reports every counter/timer the node shell has recorded, the
// JSON-RPC counterpart of the teacher's JSONMetrics RPC handler.
func Metrics(ctx *rpctypes.Context) (*ResultMetrics, error) {
	return &ResultMetrics{Metrics: env.Metrics.Snapshot()}, nil
}

func simpleInput(kind headtypes.ClientInputKind) (*ResultAck, error) {
	if err := env.Submit(headtypes.ClientInput{Kind: kind}); err != nil {
		return nil, err
	}
	return &ResultAck{}, nil
}

// ResultAck is returned for every fire-and-forget input: submission only
// means the event was accepted into the loop, not that it succeeded. The
// eventual outcome arrives asynchronously as a ServerOutput over the
// notification hub (§6.2).
type ResultAck struct{}

type ResultUTxO struct {
	UTxO headtypes.UTxO `json:"utxo"`
}

type ResultMetrics struct {
	Metrics map[string]interface{} `json:"metrics"`
}
