package clientapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tendermint/libs/log"

	"headnode/headtypes"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans out every ServerOutput the core emits (§6.2) to every client
// currently subscribed over a websocket connection at "/subscribe".
type Hub struct {
	logger log.Logger

	mtx   sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub(logger log.Logger) *Hub {
	return &Hub{
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade subscriber connection", "err", err)
		return
	}

	h.mtx.Lock()
	h.conns[conn] = struct{}{}
	h.mtx.Unlock()

	go h.readLoop(conn)
}

// readLoop exists only to notice when a subscriber goes away; the hub never
// expects client-initiated traffic on this connection.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	delete(h.conns, conn)
	conn.Close()
}

// Broadcast pushes out to every subscriber, dropping any connection that
// fails to accept the write within writeTimeout. Encoding goes through
// tmjson rather than gorilla's WriteJSON (plain encoding/json): ServerOutput
// carries opaque UTxO/Tx/Snapshot/Multisig/Party fields that only round-trip
// with tmjson's registered-type support (see headcrypto/ledger's
// RegisterType calls).
func (h *Hub) Broadcast(out headtypes.ServerOutput) {
	bz, err := tmjson.Marshal(out)
	if err != nil {
		h.logger.Error("failed to encode server output", "err", err)
		return
	}

	h.mtx.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mtx.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, bz); err != nil {
			h.logger.Error("dropping subscriber after failed write", "err", err)
			h.drop(conn)
		}
	}
}
