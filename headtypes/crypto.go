package headtypes

// Crypto is the signing/verification/aggregation capability of §9. The core
// never touches key material directly; it only calls this capability. The
// source this spec was distilled from notes a future intent to move signing
// itself behind a signing-effect dispatched to the shell -- this repository
// keeps signing as a direct capability call, one of the two designs the
// spec explicitly permits (§9 Design Notes).
type Crypto interface {
	// Sign produces this node's signature over a Snapshot, using the
	// signing key carried in Environment.
	Sign(env Environment, snapshot Snapshot) (Signature, error)

	// Verify reports whether sig is party's valid signature over snapshot.
	Verify(party Party, sig Signature, snapshot Snapshot) bool

	// AggregateInOrder concatenates/aggregates signatures in the fixed
	// parties order (§4.5) -- a deterministic aggregation is required for
	// on-chain verifiability. sigs must contain exactly one entry per
	// party; callers guarantee this before calling.
	AggregateInOrder(parties []Party, sigs map[PartyKey]Signature) (Multisig, error)
}
