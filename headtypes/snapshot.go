package headtypes

// Snapshot is an unsigned multi-party agreement on a ledger state plus the
// transactions applied to reach it (§3.4).
type Snapshot struct {
	Number    uint64
	UTxO      UTxO
	Confirmed []Tx
}

// Signature is an opaque per-party signature over a Snapshot, produced and
// verified by the signing capability (package headcrypto).
type Signature interface{}

// Multisig is an opaque aggregated multi-party signature, produced by
// aggregateInOrder (§4.5).
type Multisig interface{}

// ConfirmedSnapshot is either the initial snapshot (number 0, unsigned) or a
// snapshot bundled with its aggregated multisignature (§3.4).
type ConfirmedSnapshot struct {
	Snapshot Snapshot
	// Multisig is nil for the initial snapshot (number 0).
	Multisig Multisig
}

// IsInitial reports whether this is the unsigned genesis snapshot.
func (cs ConfirmedSnapshot) IsInitial() bool {
	return cs.Multisig == nil
}

// InitialConfirmedSnapshot builds the number-0 snapshot for a freshly opened
// Head carrying u0, the union of committed UTxOs (§4.3 OnCollectComTx).
func InitialConfirmedSnapshot(u0 UTxO) ConfirmedSnapshot {
	return ConfirmedSnapshot{
		Snapshot: Snapshot{Number: 0, UTxO: u0, Confirmed: nil},
		Multisig: nil,
	}
}

// SeenSnapshotStatus tags which of the three §3.3 states seenSnapshot is in.
type SeenSnapshotStatus uint8

const (
	// SeenSnapshotNone: no snapshot round is underway.
	SeenSnapshotNone SeenSnapshotStatus = iota
	// SeenSnapshotRequested: this party has requested the next snapshot and
	// is waiting to see its own ReqSn come back over the network loopback.
	SeenSnapshotRequested
	// SeenSnapshotCollecting: a next-snapshot candidate is being signed.
	SeenSnapshotCollecting
)

// SeenSnapshot is the coordinated head state's view of the in-flight
// snapshot round (§3.3).
type SeenSnapshot struct {
	Status     SeenSnapshotStatus
	Snapshot   Snapshot                 // meaningful only when Collecting
	Signatures map[PartyKey]Signature   // meaningful only when Collecting
}

// NoSeenSnapshot is the zero value, seenSnapshot = None.
func NoSeenSnapshot() SeenSnapshot {
	return SeenSnapshot{Status: SeenSnapshotNone}
}

// RequestedSeenSnapshot is seenSnapshot = Requested.
func RequestedSeenSnapshot() SeenSnapshot {
	return SeenSnapshot{Status: SeenSnapshotRequested}
}

// CollectingSeenSnapshot is seenSnapshot = Collecting{s, sigs}.
func CollectingSeenSnapshot(s Snapshot, sigs map[PartyKey]Signature) SeenSnapshot {
	if sigs == nil {
		sigs = make(map[PartyKey]Signature)
	}
	return SeenSnapshot{Status: SeenSnapshotCollecting, Snapshot: s, Signatures: sigs}
}
