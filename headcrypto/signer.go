package headcrypto

import (
	"github.com/pkg/errors"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"go.dedis.ch/kyber/v3/sign/bls"

	"headnode/headtypes"
)

// Signer implements headtypes.Crypto: signing and verifying snapshots and
// aggregating the resulting per-party signatures into one Multisig, per
// §4.5's signing/aggregation capability.
type Signer struct {
	priv PrivKey
}

var _ headtypes.Crypto = Signer{}

func NewSigner(priv PrivKey) Signer {
	return Signer{priv: priv}
}

// RawSignature is the concrete Signature value produced by Sign: a single
// party's raw BLS signature, named (rather than a bare []byte) so it can be
// registered with tmjson and round-trip through a Signature interface{}
// field on the wire and in the store.
type RawSignature []byte

// aggregatedSignature is the concrete Multisig value: the aggregated BLS
// signature over whatever Snapshot the ConfirmedSnapshot it travels with
// names.
type aggregatedSignature struct {
	Signature []byte `json:"signature"`
}

func init() {
	tmjson.RegisterType(RawSignature{}, "head/headcrypto.RawSignature")
	tmjson.RegisterType(aggregatedSignature{}, "head/headcrypto.AggregatedSignature")
}

// snapshotDigest canonicalizes a Snapshot for signing. It goes through
// tmjson rather than encoding/json so the opaque UTxO/Tx payloads (which may
// carry tendermint-style interface fields) serialize the same way the rest
// of this codebase's wire format does.
func snapshotDigest(s headtypes.Snapshot) ([]byte, error) {
	return tmjson.Marshal(s)
}

func (s Signer) Sign(env headtypes.Environment, snapshot headtypes.Snapshot) (headtypes.Signature, error) {
	digest, err := snapshotDigest(snapshot)
	if err != nil {
		return nil, errors.WithMessage(err, "canonicalizing snapshot for signing")
	}
	sig, err := s.priv.Sign(digest)
	if err != nil {
		return nil, errors.WithMessage(err, "signing snapshot")
	}
	return RawSignature(sig), nil
}

func (s Signer) Verify(party headtypes.Party, sig headtypes.Signature, snapshot headtypes.Snapshot) bool {
	raw, ok := sig.(RawSignature)
	if !ok {
		return false
	}
	digest, err := snapshotDigest(snapshot)
	if err != nil {
		return false
	}
	return party.VerificationKey != nil && party.VerificationKey.VerifySignature(digest, raw)
}

func (s Signer) AggregateInOrder(parties []headtypes.Party, sigs map[headtypes.PartyKey]headtypes.Signature) (headtypes.Multisig, error) {
	raws := make([][]byte, 0, len(parties))
	for _, p := range parties {
		sig, ok := sigs[p.Key()]
		if !ok {
			return nil, errors.Errorf("no signature from party %v", p)
		}
		raw, ok := sig.(RawSignature)
		if !ok {
			return nil, errors.Errorf("signature from party %v is not a raw BLS signature", p)
		}
		raws = append(raws, raw)
	}

	aggregated, err := bls.AggregateSignatures(suite, raws...)
	if err != nil {
		return nil, errors.WithMessage(err, "aggregating snapshot signatures")
	}

	return aggregatedSignature{Signature: aggregated}, nil
}
