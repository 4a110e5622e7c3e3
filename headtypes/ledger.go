package headtypes

// UTxO and Tx are opaque members of the ledger type family (§9 "Polymorphism
// over tx"). The core never inspects their concrete shape; it only ever
// passes them to a Ledger capability, which is the one party that knows how
// to apply or validate them. Concrete instantiations live in package ledger.
type UTxO interface{}

// Tx is a single layer-two transaction, opaque to the core.
type Tx interface{}

// Ledger is the capability the core uses to validate and apply
// transactions, per the design note in §9. Implementations must be pure:
// same inputs, same outputs, no I/O.
type Ledger interface {
	// CanApply reports whether tx may be applied to utxo, without mutating
	// either argument. A nil error means valid.
	CanApply(utxo UTxO, tx Tx) error

	// ApplyTransactions applies txs, in order, to utxo and returns the
	// resulting set. It must stop and return an error at the first
	// transaction that does not apply; no partial application of that one
	// transaction is observable.
	ApplyTransactions(utxo UTxO, txs []Tx) (UTxO, error)

	// Combine folds a list of per-party committed UTxOs into one, used to
	// build the AbortTx/CollectComTx payloads, HeadIsAborted and
	// GetUTxO/u0 (§4.3). Order matters for implementations that are not commutative;
	// callers always pass utxos in HeadParameters.Parties order.
	Combine(utxos []UTxO) UTxO

	// TxID returns a stable identity for tx, used by the core to compare
	// transactions for membership (seenTxs \ confirmed, §3.3/§4.5) without
	// requiring the opaque Tx type to be Go-comparable.
	TxID(tx Tx) string
}

// Slot is a chain-slot number; chain-state tags must expose one so the
// rollback resolver (§4.8) can compare them.
type Slot uint64

// ChainStateInfo is implemented by the opaque chain-state tag carried by
// every HeadState (§3.2, §9 "IsChainState").
type ChainStateInfo interface {
	ChainSlot() Slot
}
