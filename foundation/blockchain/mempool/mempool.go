// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Mempool represents the queue of transactions waiting to be mined, kept
// in the order they were submitted.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the size of
// the pool.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Remove deletes every pooled transaction that is equal in value to one of
// the specified transactions. Two pooled transactions with identical fields
// are both removed even if only one of them was mined. Returns the number
// of transactions removed.
func (mp *Mempool) Remove(trans []database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	remove := make(map[database.Tx]struct{}, len(trans))
	for _, tx := range trans {
		remove[tx] = struct{}{}
	}

	keep := make([]database.Tx, 0, len(mp.pool))
	for _, tx := range mp.pool {
		if _, exists := remove[tx]; !exists {
			keep = append(keep, tx)
		}
	}

	removed := len(mp.pool) - len(keep)
	mp.pool = keep

	return removed
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// Copy returns a snapshot of the transactions in submission order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}
