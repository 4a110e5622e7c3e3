package head

import (
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/crypto/ed25519"

	"headnode/headtypes"
)

// testTx and testUTxO are a minimal ledger type family used only to exercise
// the transition core against concrete (non-nil) Tx/UTxO values, standing in
// for the concrete family package ledger provides.
type testTx struct {
	id     string
	from   string
	to     string
	amount int
}

type testUTxO map[string]int

type fakeLedger struct{}

func (fakeLedger) CanApply(u headtypes.UTxO, tx headtypes.Tx) error {
	balances := u.(testUTxO)
	t := tx.(testTx)
	if balances[t.from] < t.amount {
		return errors.Errorf("insufficient balance for %s", t.from)
	}
	return nil
}

func (l fakeLedger) ApplyTransactions(u headtypes.UTxO, txs []headtypes.Tx) (headtypes.UTxO, error) {
	next := make(testUTxO, len(u.(testUTxO)))
	for k, v := range u.(testUTxO) {
		next[k] = v
	}
	for _, tx := range txs {
		if err := l.CanApply(next, tx); err != nil {
			return nil, err
		}
		t := tx.(testTx)
		next[t.from] -= t.amount
		next[t.to] += t.amount
	}
	return next, nil
}

func (fakeLedger) Combine(utxos []headtypes.UTxO) headtypes.UTxO {
	out := make(testUTxO)
	for _, u := range utxos {
		for k, v := range u.(testUTxO) {
			out[k] += v
		}
	}
	return out
}

func (fakeLedger) TxID(tx headtypes.Tx) string {
	return tx.(testTx).id
}

// fakeSignature is a deterministic stand-in for a real BLS-style signature.
type fakeSignature struct {
	party headtypes.PartyKey
	sn    uint64
}

type fakeMultisig struct {
	sn   uint64
	sigs []fakeSignature
}

type fakeCrypto struct{}

func (fakeCrypto) Sign(env headtypes.Environment, snapshot headtypes.Snapshot) (headtypes.Signature, error) {
	return fakeSignature{party: env.Party.Key(), sn: snapshot.Number}, nil
}

func (fakeCrypto) Verify(party headtypes.Party, sig headtypes.Signature, snapshot headtypes.Snapshot) bool {
	s, ok := sig.(fakeSignature)
	return ok && s.party == party.Key() && s.sn == snapshot.Number
}

func (fakeCrypto) AggregateInOrder(parties []headtypes.Party, sigs map[headtypes.PartyKey]headtypes.Signature) (headtypes.Multisig, error) {
	out := fakeMultisig{}
	for _, p := range parties {
		sig, ok := sigs[p.Key()]
		if !ok {
			return nil, errors.Errorf("missing signature from %v", p)
		}
		fs := sig.(fakeSignature)
		out.sn = fs.sn
		out.sigs = append(out.sigs, fs)
	}
	return out, nil
}

// testChainState is a trivial ChainStateInfo used to advance slots across
// observations in scenario tests.
type testChainState headtypes.Slot

func (s testChainState) ChainSlot() headtypes.Slot { return headtypes.Slot(s) }

// newTestParty returns a party with a freshly generated key; seed only
// disambiguates call sites in test code, it does not seed the key material.
func newTestParty(seed int64) headtypes.Party {
	priv := ed25519.GenPrivKey()
	return headtypes.Party{VerificationKey: priv.PubKey()}
}

func newTestEnv(self headtypes.Party, others []headtypes.Party) headtypes.Environment {
	return headtypes.Environment{
		Party:         self,
		OtherParties:  others,
		ContestationP: 0,
	}
}
