package clientapi

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tendermint/libs/log"

	"headnode/headtypes"
)

func TestHubBroadcastsToSubscriber(t *testing.T) {
	hub := NewHub(log.TestingLogger())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// give the server goroutine a moment to register the connection
	time.Sleep(20 * time.Millisecond)

	hub.Broadcast(headtypes.ServerOutput{Kind: headtypes.OutputHeadIsOpen})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, bz, err := conn.ReadMessage()
	require.NoError(t, err)

	var out headtypes.ServerOutput
	require.NoError(t, tmjson.Unmarshal(bz, &out))
	require.Equal(t, headtypes.OutputHeadIsOpen, out.Kind)
}
