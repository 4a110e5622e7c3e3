package clientapi

import (
	"net"
	"net/http"

	"github.com/tendermint/tendermint/libs/log"
	rpcserver "github.com/tendermint/tendermint/rpc/jsonrpc/server"

	"headnode/headtypes"
)

// Server is the node's client-facing shell: a JSON-RPC listener for
// ClientInput submission (Routes) plus a websocket hub for ServerOutput
// push notifications, grounded on the teacher's rpc.Routes/rpcserver
// wiring.
type Server struct {
	logger   log.Logger
	listener net.Listener
	config   *rpcserver.Config

	hub *Hub
}

func NewServer(logger log.Logger, env *Environment) *Server {
	SetEnvironment(env)
	return &Server{
		logger: logger,
		config: rpcserver.DefaultConfig(),
		hub:    NewHub(logger),
	}
}

// Start binds addr and begins serving both the JSON-RPC routes and the
// "/subscribe" websocket endpoint.
func (s *Server) Start(addr string) error {
	listener, err := rpcserver.Listen(addr, s.config)
	if err != nil {
		return err
	}
	s.listener = listener

	mux := http.NewServeMux()
	rpcserver.RegisterRPCFuncs(mux, Routes, s.logger)
	mux.Handle("/subscribe", s.hub)

	go func() {
		if err := rpcserver.Serve(listener, mux, s.logger, s.config); err != nil {
			s.logger.Error("client API server stopped", "err", err)
		}
	}()
	return nil
}

func (s *Server) Stop() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// Publish pushes a ServerOutput to every subscribed client.
func (s *Server) Publish(out headtypes.ServerOutput) {
	s.hub.Broadcast(out)
}
