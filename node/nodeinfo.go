// NodeInfo is the p2p.NodeInfo this node advertises to its peers: just
// enough identity for the gossip transport to dial and handshake, since a
// Head carries no block-sync or validator-set metadata the way a
// consensus node would.
package node

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tendermint/tendermint/p2p"
)

// NewNodeInfo builds the advertised identity for a node listening at laddr.
func NewNodeInfo(ID p2p.ID, laddr string) (p2p.NodeInfo, error) {
	laddr = removeProtocolIfDefined(laddr)
	idAddr := fmt.Sprintf("%s@%s", ID, laddr)

	addr, err := p2p.NewNetAddressString(idAddr)
	if err != nil {
		return nil, err
	}
	return NodeInfo{
		Addr:    addr,
		Version: "1.0",
	}, nil

}

type NodeInfo struct {
	Addr *p2p.NetAddress

	Version string
}

func (info NodeInfo) ID() p2p.ID {
	return info.Addr.ID
}

func (info NodeInfo) NetAddress() (*p2p.NetAddress, error) {
	if info.Addr != nil {
		return info.Addr, nil
	}
	return nil, errors.New("node address is empty")
}

func (info NodeInfo) Validate() error {
	if info.Addr == nil {
		return errors.New("node address is empty")
	}

	if len(info.Version) > 0 && (strings.Trim(info.Version, "\t ") == "") {
		return fmt.Errorf("info.Version must be valid ASCII text without tabs, but got %v", info.Version)
	}

	return nil
}

// CompatibleWith implements p2p.NodeInfo. A Head imposes no version
// negotiation between peers beyond what the transport handshake already
// checks.
func (info NodeInfo) CompatibleWith(otherInfo p2p.NodeInfo) error {
	return nil
}

func removeProtocolIfDefined(addr string) string {
	if strings.Contains(addr, "://") {
		return strings.Split(addr, "://")[1]
	}
	return addr

}
