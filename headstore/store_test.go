package headstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tm-db/memdb"

	"headnode/chainwatch"
	"headnode/head"
	"headnode/headtypes"
	"headnode/ledger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreWithDB(memdb.NewDB(), log.TestingLogger())
}

func TestLoadOnFreshStoreReturnsIdle(t *testing.T) {
	s := newTestStore(t)

	state, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, head.PhaseIdle, state.Phase())
}

func TestSaveLoadRoundTripsInitialState(t *testing.T) {
	s := newTestStore(t)

	party := headtypes.Party{}
	in := head.InitialState{
		Parameters:     headtypes.HeadParameters{Parties: []headtypes.Party{party}},
		PendingCommits: map[headtypes.PartyKey]headtypes.Party{party.Key(): party},
		Committed:      map[headtypes.PartyKey]headtypes.UTxO{},
		Predecessor:    head.NewIdle(chainwatch.ChainState{Slot: 1}),
		ChainState:     chainwatch.ChainState{Slot: 2},
	}
	original := head.NewInitial(in)

	require.NoError(t, s.Save(original))

	recovered, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, head.PhaseInitial, recovered.Phase())

	got, ok := recovered.Initial()
	require.True(t, ok)
	assert.Equal(t, in.Parameters, got.Parameters)
	assert.Equal(t, chainwatch.ChainState{Slot: 2}, got.ChainState)
	assert.Equal(t, chainwatch.ChainState{Slot: 1}, got.Predecessor.ChainState())
}

func TestSaveLoadRoundTripsOpenStateWithCommittedLedger(t *testing.T) {
	s := newTestStore(t)

	u0 := ledger.UTxO{
		{Index: 0}: {Value: 100},
	}
	o := head.OpenState{
		Parameters:  headtypes.HeadParameters{Parties: []headtypes.Party{{}}},
		Coordinated: head.InitialCoordinatedHeadState(u0),
		Predecessor: head.NewIdle(chainwatch.ChainState{Slot: 3}),
		ChainState:  chainwatch.ChainState{Slot: 4},
	}
	require.NoError(t, s.Save(head.NewOpen(o)))

	recovered, err := s.Load()
	require.NoError(t, err)
	got, ok := recovered.Open()
	require.True(t, ok)
	assert.Equal(t, uint64(0), got.Coordinated.ConfirmedSnapshot.Snapshot.Number)
}
