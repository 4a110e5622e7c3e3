package node

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	cfg "github.com/tendermint/tendermint/config"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tm-db/memdb"

	"headnode/chainwatch"
	"headnode/headcrypto"
	"headnode/headstore"
	"headnode/headtypes"
	"headnode/ledger"
	"headnode/metrics"
)

// TestInitReachesReadyToCommitViaSimulatedChain drives a single node purely through
// its client-facing surface: a client Init request causes an InitTx to be
// posted to the simulated chain, whose confirmation feeds back as an
// OnChainEvent that the loop turns into a ReadyToCommit notification on the
// websocket hub, exercising the full Submit -> Transition -> dispatch ->
// Publish path end to end.
func TestInitReachesReadyToCommitViaSimulatedChain(t *testing.T) {
	priv, err := headcrypto.GenPrivKey()
	require.NoError(t, err)

	env := headtypes.Environment{
		Party:         headtypes.Party{VerificationKey: priv.PubKey()},
		SigningKey:    priv,
		ContestationP: time.Second,
	}

	config := cfg.ResetTestRoot("node_init_test")

	nodeKey, err := p2p.LoadOrGenNodeKey(config.NodeKeyFile())
	require.NoError(t, err)

	chain := chainwatch.NewSimChain(10*time.Millisecond, 20*time.Millisecond, time.Second)
	store := headstore.NewStoreWithDB(memdb.NewDB(), log.TestingLogger())
	m := metrics.NewMetrics()

	n, err := New(config, nodeKey, log.TestingLogger(), env, ledger.SimpleLedger{}, headcrypto.NewSigner(priv), chain, store, m)
	require.NoError(t, err)
	require.NoError(t, n.Start())
	defer func() { _ = n.Stop() }()

	wsURL := url.URL{Scheme: "ws", Host: mustHostPort(t, config.RPC.ListenAddress), Path: "/subscribe"}
	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		c, _, dialErr := websocket.DefaultDialer.Dial(wsURL.String(), nil)
		if dialErr != nil {
			return false
		}
		conn = c
		return true
	}, 2*time.Second, 20*time.Millisecond)
	defer conn.Close()

	require.NoError(t, n.Submit(headtypes.ClientInput{Kind: headtypes.InputInit}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, bz, err := conn.ReadMessage()
	require.NoError(t, err)

	var out headtypes.ServerOutput
	require.NoError(t, tmjson.Unmarshal(bz, &out))
	require.Equal(t, headtypes.OutputReadyToCommit, out.Kind)
}

func mustHostPort(t *testing.T, listenAddr string) string {
	t.Helper()
	u, err := url.Parse(listenAddr)
	require.NoError(t, err)
	if strings.HasPrefix(u.Host, "0.0.0.0:") {
		return "127.0.0.1:" + strings.TrimPrefix(u.Host, "0.0.0.0:")
	}
	return u.Host
}
