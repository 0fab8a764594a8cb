package state

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ResolveConflicts implements the longest valid chain rule. Every known peer
// is asked for its chain and the longest one that is strictly longer than
// anything seen so far, starting with the local chain, and that passes
// validation replaces the local chain. Peers that can't be reached or that
// return an invalid or shorter chain are skipped. Reports whether the local
// chain was replaced.
func (s *State) ResolveConflicts(ctx context.Context) bool {
	s.evHandler("state: ResolveConflicts: started")
	defer s.evHandler("state: ResolveConflicts: completed")

	maxLength := s.QueryChainLength()
	var newChain []database.Block

	for _, pr := range s.RetrieveKnownPeers() {
		chain, err := s.NetRequestPeerChain(ctx, pr)
		if err != nil {
			s.evHandler("state: ResolveConflicts: WARNING: skipping peer: %s", err)
			continue
		}

		if len(chain) <= maxLength {
			s.evHandler("state: ResolveConflicts: peer[%s]: length[%d] not longer than [%d]", pr, len(chain), maxLength)
			continue
		}

		if err := database.ValidateChain(chain, s.difficulty); err != nil {
			s.evHandler("state: ResolveConflicts: WARNING: peer[%s]: %s", pr, err)
			continue
		}

		s.evHandler("state: ResolveConflicts: peer[%s]: candidate chain length[%d]", pr, len(chain))

		maxLength = len(chain)
		newChain = chain
	}

	if newChain == nil {
		s.evHandler("state: ResolveConflicts: local chain is authoritative")
		return false
	}

	return s.replaceChain(newChain)
}

// replaceChain swaps in the new chain if it is still longer than the local
// chain, which may have grown since the scan started.
func (s *State) replaceChain(chain []database.Block) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(chain) <= len(s.chain) {
		s.evHandler("state: replaceChain: local chain grew to length[%d], keeping it", len(s.chain))
		return false
	}

	s.chain = chain
	s.evHandler("state: replaceChain: chain replaced: length[%d]", len(chain))

	return true
}
