package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headnode/headtypes"
)

func genesisOutput(owner byte, value uint64) (OutputRef, Output) {
	genesis := Tx{Outputs: []Output{{Owner: []byte{owner}, Value: value}}}
	return OutputRef{Tx: genesis.ID(), Index: 0}, Output{Owner: []byte{owner}, Value: value}
}

func TestApplyTransactionsConservesValue(t *testing.T) {
	ref, out := genesisOutput(1, 100)
	u0 := UTxO{ref: out}

	tx := Tx{
		Inputs:  []OutputRef{ref},
		Outputs: []Output{{Owner: []byte{2}, Value: 40}, {Owner: []byte{1}, Value: 60}},
	}

	l := SimpleLedger{}
	next, err := l.ApplyTransactions(u0, []headtypes.Tx{tx})
	require.NoError(t, err)

	result := next.(UTxO)
	assert.Len(t, result, 2)
	assert.NotContains(t, result, ref)

	var total uint64
	for _, o := range result {
		total += o.Value
	}
	assert.Equal(t, uint64(100), total)
}

func TestCanApplyRejectsUnbalancedTx(t *testing.T) {
	ref, out := genesisOutput(1, 100)
	u0 := UTxO{ref: out}

	tx := Tx{
		Inputs:  []OutputRef{ref},
		Outputs: []Output{{Owner: []byte{2}, Value: 999}},
	}

	l := SimpleLedger{}
	err := l.CanApply(u0, tx)
	assert.Error(t, err)
}

func TestCanApplyRejectsDoubleSpend(t *testing.T) {
	ref, out := genesisOutput(1, 100)
	u0 := UTxO{ref: out}

	tx := Tx{
		Inputs:  []OutputRef{ref, ref},
		Outputs: []Output{{Owner: []byte{2}, Value: 100}},
	}

	l := SimpleLedger{}
	err := l.CanApply(u0, tx)
	assert.Error(t, err)
}

func TestCanApplyRejectsUnknownInput(t *testing.T) {
	u0 := UTxO{}
	tx := Tx{Inputs: []OutputRef{{Index: 0}}, Outputs: []Output{{Owner: []byte{2}, Value: 1}}}

	l := SimpleLedger{}
	err := l.CanApply(u0, tx)
	assert.Error(t, err)
}

func TestCombineMergesDisjointSets(t *testing.T) {
	refA, outA := genesisOutput(1, 10)
	refB, outB := genesisOutput(2, 20)

	l := SimpleLedger{}
	combined := l.Combine([]headtypes.UTxO{UTxO{refA: outA}, UTxO{refB: outB}})

	result := combined.(UTxO)
	assert.Len(t, result, 2)
	assert.Equal(t, outA, result[refA])
	assert.Equal(t, outB, result[refB])
}

func TestTxIDIsStableAndDistinguishesTransactions(t *testing.T) {
	ref, _ := genesisOutput(1, 100)
	txA := Tx{Inputs: []OutputRef{ref}, Outputs: []Output{{Owner: []byte{2}, Value: 100}}}
	txB := Tx{Inputs: []OutputRef{ref}, Outputs: []Output{{Owner: []byte{3}, Value: 100}}}

	l := SimpleLedger{}
	assert.Equal(t, l.TxID(txA), l.TxID(txA))
	assert.NotEqual(t, l.TxID(txA), l.TxID(txB))
}
