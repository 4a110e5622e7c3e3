// Package headtypes defines the event, effect, and message vocabulary
// exchanged between a Head node's pure transition core and its shells.
package headtypes

import (
	"bytes"
	"fmt"
	"time"

	"github.com/tendermint/tendermint/crypto"
)

// Party identifies a Head participant by its verification key. Parties are
// compared and ordered by the raw key bytes, never by any derived address,
// so the leader schedule and aggregation order in §4.5/§4.5 of the spec are
// reproducible from the key material alone.
type Party struct {
	VerificationKey crypto.PubKey
}

// Equal reports whether two parties share the same verification key.
func (p Party) Equal(other Party) bool {
	if p.VerificationKey == nil || other.VerificationKey == nil {
		return p.VerificationKey == other.VerificationKey
	}
	return p.VerificationKey.Equals(other.VerificationKey)
}

func (p Party) String() string {
	if p.VerificationKey == nil {
		return "Party(nil)"
	}
	return fmt.Sprintf("Party(%X)", p.VerificationKey.Bytes()[:8])
}

// Bytes returns the raw verification key bytes, used as a map key surrogate
// since crypto.PubKey is not itself comparable/hashable in all backends.
func (p Party) Bytes() []byte {
	if p.VerificationKey == nil {
		return nil
	}
	return p.VerificationKey.Bytes()
}

// PartyKey is a comparable stand-in for Party suitable for map keys.
type PartyKey string

// Key returns the map-key form of a Party.
func (p Party) Key() PartyKey {
	return PartyKey(p.Bytes())
}

// SortParties returns parties sorted by verification-key bytes. The result
// is only used where an incoming, unordered party list must be normalized;
// HeadParameters.Parties itself must retain the caller-supplied order, since
// that order is what defines the leader schedule (§3.1).
func SortParties(parties []Party) []Party {
	out := make([]Party, len(parties))
	copy(out, parties)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && bytes.Compare(out[j].Bytes(), out[j-1].Bytes()) < 0; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// ContestationPeriod is the duration a closing snapshot remains open to
// contest, expressed in wall-clock terms (§3.1, §4.6).
type ContestationPeriod = time.Duration

// HeadParameters is fixed at Init and never changes for the lifetime of a
// Head (§3.1). Parties order is significant: it defines both the snapshot
// leader schedule (§4.5) and the multisig aggregation order (§4.5, §8.4).
type HeadParameters struct {
	ContestationPeriod ContestationPeriod
	Parties            []Party
}

// IndexOf returns the position of party in Parties, or -1 if absent.
func (hp HeadParameters) IndexOf(party Party) int {
	for i, p := range hp.Parties {
		if p.Equal(party) {
			return i
		}
	}
	return -1
}

// Contains reports whether party is one of the Head's fixed participants.
func (hp HeadParameters) Contains(party Party) bool {
	return hp.IndexOf(party) >= 0
}

// IsLeader implements the round-robin leader schedule of §4.5: snapshot
// number sn (>= 1) is led by the party at index (sn-1) mod len(parties).
func (hp HeadParameters) IsLeader(party Party, sn uint64) bool {
	if len(hp.Parties) == 0 || sn == 0 {
		return false
	}
	idx := int((sn - 1) % uint64(len(hp.Parties)))
	return hp.Parties[idx].Equal(party)
}

// Environment is the immutable, per-node configuration threaded through
// every call to the transition function (§6.5, §9 "no global state"). It is
// never mutated after construction.
type Environment struct {
	Party          Party
	SigningKey     crypto.PrivKey
	OtherParties   []Party
	ContestationP  ContestationPeriod
}

// Parameters derives the HeadParameters this environment will propose on
// Init (§4.2): our own party first, then the other parties in the order
// supplied at construction, matching the source's "party : otherParties".
func (env Environment) Parameters() HeadParameters {
	parties := make([]Party, 0, len(env.OtherParties)+1)
	parties = append(parties, env.Party)
	parties = append(parties, env.OtherParties...)
	return HeadParameters{
		ContestationPeriod: env.ContestationP,
		Parties:            parties,
	}
}
