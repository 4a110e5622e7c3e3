package headcrypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headnode/headtypes"
)

func newTestParty(t *testing.T) (headtypes.Party, Signer) {
	t.Helper()
	priv, err := GenPrivKey()
	require.NoError(t, err)
	party := headtypes.Party{VerificationKey: priv.PubKey()}
	return party, NewSigner(priv)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	party, signer := newTestParty(t)
	snapshot := headtypes.Snapshot{Number: 1}

	sig, err := signer.Sign(headtypes.Environment{Party: party}, snapshot)
	require.NoError(t, err)

	assert.True(t, signer.Verify(party, sig, snapshot))
}

func TestVerifyRejectsWrongParty(t *testing.T) {
	signerParty, signer := newTestParty(t)
	otherParty, _ := newTestParty(t)
	snapshot := headtypes.Snapshot{Number: 1}

	sig, err := signer.Sign(headtypes.Environment{Party: signerParty}, snapshot)
	require.NoError(t, err)

	assert.False(t, signer.Verify(otherParty, sig, snapshot))
}

func TestVerifyRejectsTamperedSnapshot(t *testing.T) {
	party, signer := newTestParty(t)
	snapshot := headtypes.Snapshot{Number: 1}

	sig, err := signer.Sign(headtypes.Environment{Party: party}, snapshot)
	require.NoError(t, err)

	assert.False(t, signer.Verify(party, sig, headtypes.Snapshot{Number: 2}))
}

func TestAggregateInOrderRequiresEveryParty(t *testing.T) {
	partyA, signerA := newTestParty(t)
	partyB, _ := newTestParty(t)
	snapshot := headtypes.Snapshot{Number: 1}

	sigA, err := signerA.Sign(headtypes.Environment{Party: partyA}, snapshot)
	require.NoError(t, err)

	_, err = signerA.AggregateInOrder([]headtypes.Party{partyA, partyB}, map[headtypes.PartyKey]headtypes.Signature{
		partyA.Key(): sigA,
	})
	assert.Error(t, err)
}

func TestAggregateInOrderSucceedsWithAllSignatures(t *testing.T) {
	partyA, signerA := newTestParty(t)
	partyB, signerB := newTestParty(t)
	snapshot := headtypes.Snapshot{Number: 1}

	sigA, err := signerA.Sign(headtypes.Environment{Party: partyA}, snapshot)
	require.NoError(t, err)
	sigB, err := signerB.Sign(headtypes.Environment{Party: partyB}, snapshot)
	require.NoError(t, err)

	multisig, err := signerA.AggregateInOrder([]headtypes.Party{partyA, partyB}, map[headtypes.PartyKey]headtypes.Signature{
		partyA.Key(): sigA,
		partyB.Key(): sigB,
	})
	require.NoError(t, err)
	assert.NotNil(t, multisig)
}
