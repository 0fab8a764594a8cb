package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Set of errors returned by mining.
var (
	// ErrNoTransactions is returned when a block is requested to be created
	// and there are no transactions in the mempool.
	ErrNoTransactions = errors.New("no transactions to mine")

	// ErrStaleBlock is returned when the local chain was replaced while a
	// block was being mined on top of the old tip.
	ErrStaleBlock = errors.New("chain changed while mining")
)

// =============================================================================

// MinePendingTransactions pulls the latest chain from the network, mines a
// block with every pending transaction plus the reward for the specified
// miner, and asks the peers to resolve against the new chain. Callers wait
// their turn if another mining operation is running. The context only bounds
// that wait: once started, mining runs until solved or the node shuts down.
func (s *State) MinePendingTransactions(ctx context.Context, minerID string) (database.Block, error) {
	s.evHandler("state: MinePendingTransactions: MINING: wait for mining slot")

	select {
	case s.mining <- struct{}{}:
	case <-ctx.Done():
		return database.Block{}, ctx.Err()
	case <-s.ctx.Done():
		return database.Block{}, s.ctx.Err()
	}
	defer func() { <-s.mining }()

	s.evHandler("state: MinePendingTransactions: MINING: resolve conflicts")

	// Never extend a chain that is known to be shorter than a valid
	// chain held by a peer.
	s.ResolveConflicts(s.ctx)

	s.evHandler("state: MinePendingTransactions: MINING: check mempool count")

	trans := s.mempool.Copy()
	if len(trans) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	// The reward only exists inside the block, it never enters the mempool.
	trans = append(trans, database.NewRewardTx(minerID, s.miningReward))

	latest, length := s.tip()
	block := database.NewBlock(length, trans, latest.Hash)

	s.evHandler("state: MinePendingTransactions: MINING: perform POW: blk[%d]: txs[%d]", block.Index, len(trans))

	t := time.Now()
	if err := block.Mine(s.ctx, s.difficulty, s.evHandler); err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MinePendingTransactions: MINING: mining duration[%v]", time.Since(t))

	if err := s.appendBlock(block); err != nil {
		return database.Block{}, err
	}

	// Transactions submitted after the snapshot was taken stay in the pool
	// for the next block.
	removed := s.mempool.Remove(trans)
	s.evHandler("state: MinePendingTransactions: MINING: removed from mempool[%d]", removed)

	// Ask every peer to resolve so the network converges on this block.
	s.NetSendResolveToPeers(s.ctx)

	return block, nil
}

// =============================================================================

// tip returns the latest block and the length of the chain.
func (s *State) tip() (database.Block, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain[len(s.chain)-1], uint64(len(s.chain))
}

// appendBlock adds the mined block to the chain as long as it still extends
// the current tip.
func (s *State) appendBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := s.chain[len(s.chain)-1]
	if block.Index != uint64(len(s.chain)) || block.PrevHash != latest.Hash {
		return fmt.Errorf("%w: blk[%d] built on %s, latest is blk[%d] %s", ErrStaleBlock, block.Index, block.PrevHash, latest.Index, latest.Hash)
	}

	s.chain = append(s.chain, block)
	s.evHandler("state: appendBlock: blk[%d]: hash[%s]", block.Index, block.Hash)

	return nil
}
