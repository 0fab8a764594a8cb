package state

import (
	"encoding/json"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// AddTransaction places a new transaction into the mempool and returns the
// index of the block that would next include it. No validation is performed
// on the parties or the amount.
func (s *State) AddTransaction(sender string, recipient string, amount json.Number) uint64 {
	tx := database.NewTx(sender, recipient, amount)

	n := s.mempool.Add(tx)
	s.evHandler("state: AddTransaction: tx[%s]: mempool[%d]", tx, n)

	return uint64(s.QueryChainLength())
}

// RegisterPeers normalizes and adds the addresses to the set of known peers.
// Nothing is added if any address is invalid. Addresses already known are
// ignored. Returns the known peers.
func (s *State) RegisterPeers(addresses []string) ([]peer.Peer, error) {
	peers := make([]peer.Peer, 0, len(addresses))
	for _, address := range addresses {
		pr, err := peer.New(address)
		if err != nil {
			return nil, err
		}
		peers = append(peers, pr)
	}

	var added int
	for _, pr := range peers {
		if s.knownPeers.Add(pr) {
			s.evHandler("state: RegisterPeers: add peer[%s]", pr)
			added++
		}
	}

	// Let the worker pull the chains of the new peers in the background.
	if added > 0 && s.Worker != nil {
		s.Worker.SignalResolve()
	}

	return s.RetrieveKnownPeers(), nil
}
