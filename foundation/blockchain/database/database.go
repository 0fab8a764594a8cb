// Package database provides the blocks, transactions and chain rules that
// make up the ledger. The chain itself is held in memory by the state
// package; nothing in here is written to disk.
package database

import (
	"errors"
	"fmt"
)

// Set of errors returned by chain validation.
var (
	ErrChainEmpty   = errors.New("chain is empty")
	ErrChainInvalid = errors.New("chain is invalid")
)

// ValidateChain checks every block after genesis for a matching content
// hash, a previous hash that links to its parent, and a solved proof of
// work. The genesis block is accepted as is. The chain is never modified.
func ValidateChain(chain []Block, difficulty uint) error {
	if len(chain) == 0 {
		return ErrChainEmpty
	}

	for i := 1; i < len(chain); i++ {
		block := chain[i]
		parent := chain[i-1]

		hash, err := block.digest()
		if err != nil {
			return fmt.Errorf("%w: blk[%d]: encoding content: %s", ErrChainInvalid, i, err)
		}

		if block.Hash != hash {
			return fmt.Errorf("%w: blk[%d]: hash mismatch, got %s, exp %s", ErrChainInvalid, i, block.Hash, hash)
		}

		if block.PrevHash != parent.Hash {
			return fmt.Errorf("%w: blk[%d]: parent hash doesn't match, got %s, exp %s", ErrChainInvalid, i, block.PrevHash, parent.Hash)
		}

		if !IsHashSolved(difficulty, block.Hash) {
			return fmt.Errorf("%w: blk[%d]: proof of work not solved for difficulty %d", ErrChainInvalid, i, difficulty)
		}
	}

	return nil
}

// IsChainValid is the boolean form of ValidateChain.
func IsChainValid(chain []Block, difficulty uint) bool {
	return ValidateChain(chain, difficulty) == nil
}
