package clientapi

import rpc "github.com/tendermint/tendermint/rpc/jsonrpc/server"

var Routes = map[string]*rpc.RPCFunc{
	"init":     rpc.NewRPCFunc(Init, ""),
	"commit":   rpc.NewRPCFunc(Commit, "utxo"),
	"abort":    rpc.NewRPCFunc(Abort, ""),
	"new_tx":   rpc.NewRPCFunc(NewTx, "tx"),
	"close":    rpc.NewRPCFunc(Close, ""),
	"contest":  rpc.NewRPCFunc(Contest, ""),
	"fanout":   rpc.NewRPCFunc(Fanout, ""),
	"get_utxo": rpc.NewRPCFunc(GetUTxO, ""),
	"metrics":  rpc.NewRPCFunc(Metrics, ""),
}
