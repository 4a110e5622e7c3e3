// Package ledger is the concrete UTxO type family the head core treats as
// opaque (headtypes.Tx / headtypes.UTxO): an Output keyed by an OutputRef
// (the producing tx's TxID plus the output's index), a Tx that consumes some outputs and produces others, and a
// SimpleLedger implementing the headtypes.Ledger capability against them.
package ledger

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/crypto"
	"github.com/tendermint/tendermint/crypto/tmhash"
	tmjson "github.com/tendermint/tendermint/libs/json"

	"headnode/headtypes"
)

// Registering Tx/UTxO with tmjson lets them round-trip wherever they sit
// behind a headtypes.Tx/UTxO (interface{}) field: gossiped Messages
// (package network) and persisted HeadStates (package headstore).
func init() {
	tmjson.RegisterType(Tx{}, "head/ledger.Tx")
	tmjson.RegisterType(UTxO{}, "head/ledger.UTxO")
}

// TxID identifies a transaction (or, paired with an output index, one of its
// outputs) by its content hash.
type TxID [tmhash.Size]byte

func (id TxID) String() string {
	return hex.EncodeToString(id[:])
}

// OutputRef names one output of a transaction: the producing tx's id plus
// the output's position within it.
type OutputRef struct {
	Tx    TxID
	Index int
}

func (r OutputRef) String() string {
	return fmt.Sprintf("%s#%d", r.Tx, r.Index)
}

// MarshalText/UnmarshalText let OutputRef serve as a JSON object key, needed
// both for snapshot hashing (headcrypto) and for the wire encoding of a
// UTxO sent to clients (clientapi).
func (r OutputRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *OutputRef) UnmarshalText(text []byte) error {
	parts := strings.SplitN(string(text), "#", 2)
	if len(parts) != 2 {
		return errors.Errorf("malformed output ref %q", text)
	}
	raw, err := hex.DecodeString(parts[0])
	if err != nil || len(raw) != tmhash.Size {
		return errors.Errorf("malformed output ref tx id %q", parts[0])
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return errors.Errorf("malformed output ref index %q", parts[1])
	}
	copy(r.Tx[:], raw)
	r.Index = idx
	return nil
}

// Output is a single spendable value locked to an owner's address.
type Output struct {
	Owner crypto.Address
	Value uint64
}

// UTxO is the unspent-output set: the concrete type behind headtypes.UTxO.
type UTxO map[OutputRef]Output

// Tx spends a set of existing outputs and creates new ones. The concrete
// type behind headtypes.Tx.
type Tx struct {
	Inputs  []OutputRef
	Outputs []Output
}

// ID computes the content hash identifying this transaction, used both as
// the key under which its own outputs are recorded and as the comparison
// key the head core uses via headtypes.Ledger.TxID.
func (tx Tx) ID() TxID {
	h := tmhash.New()
	for _, in := range tx.Inputs {
		h.Write(in.Tx[:])
		h.Write([]byte{byte(in.Index)})
	}
	for _, out := range tx.Outputs {
		h.Write(out.Owner)
		h.Write(encodeUint64(out.Value))
	}
	var id TxID
	copy(id[:], h.Sum(nil))
	return id
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

// SimpleLedger is a headtypes.Ledger backed by the UTxO/Tx pair above: a
// transaction applies only if every input it names is unspent in the
// current view and the sum of its inputs' values equals the sum of its
// outputs' values (no minting, no burning).
type SimpleLedger struct{}

var _ headtypes.Ledger = SimpleLedger{}

func (SimpleLedger) CanApply(utxo headtypes.UTxO, tx headtypes.Tx) error {
	u := utxo.(UTxO)
	t := tx.(Tx)

	if len(t.Inputs) == 0 {
		return errors.New("transaction has no inputs")
	}

	var inputTotal, outputTotal uint64
	seen := make(map[OutputRef]struct{}, len(t.Inputs))
	for _, ref := range t.Inputs {
		if _, dup := seen[ref]; dup {
			return errors.Errorf("input %s spent twice by the same transaction", ref)
		}
		seen[ref] = struct{}{}

		out, ok := u[ref]
		if !ok {
			return errors.Errorf("input %s is not in the unspent set", ref)
		}
		inputTotal += out.Value
	}
	for _, out := range t.Outputs {
		outputTotal += out.Value
	}
	if inputTotal != outputTotal {
		return errors.Errorf("inputs total %d does not match outputs total %d", inputTotal, outputTotal)
	}
	return nil
}

func (l SimpleLedger) ApplyTransactions(utxo headtypes.UTxO, txs []headtypes.Tx) (headtypes.UTxO, error) {
	next := make(UTxO, len(utxo.(UTxO)))
	for k, v := range utxo.(UTxO) {
		next[k] = v
	}

	for _, tx := range txs {
		if err := l.CanApply(next, tx); err != nil {
			return nil, errors.WithMessage(err, "applying transaction")
		}
		t := tx.(Tx)
		for _, ref := range t.Inputs {
			delete(next, ref)
		}
		id := t.ID()
		for i, out := range t.Outputs {
			next[OutputRef{Tx: id, Index: i}] = out
		}
	}
	return next, nil
}

// Combine merges disjoint UTxO sets, as used to fold per-party commits into
// the opening snapshot (§4.3 OnCollectComTx) and client GetUTxO responses.
// Later entries win on key collision, which cannot happen for well formed
// commits since every OutputRef is scoped to its producing transaction's id.
func (SimpleLedger) Combine(utxos []headtypes.UTxO) headtypes.UTxO {
	out := make(UTxO)
	for _, u := range utxos {
		if u == nil {
			continue
		}
		for k, v := range u.(UTxO) {
			out[k] = v
		}
	}
	return out
}

func (SimpleLedger) TxID(tx headtypes.Tx) string {
	return tx.(Tx).ID().String()
}
