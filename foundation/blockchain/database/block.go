package database

import (
	"context"
	"crypto/sha256"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/canonical"
	"github.com/ethereum/go-ethereum/common"
)

// GenesisPrevHash is the previous hash recorded on the genesis block.
const GenesisPrevHash = "0"

// =============================================================================

// Block represents a group of transactions batched together. The field set
// is also the wire form exchanged with peers.
type Block struct {
	Index        uint64    `json:"index"`
	Transactions []Tx      `json:"transactions"`
	TimeStamp    Timestamp `json:"timestamp"`
	PrevHash     string    `json:"previous_hash"`
	Nonce        uint64    `json:"nonce"`
	Hash         string    `json:"hash"`
}

// NewBlock constructs a block with a zero nonce and its initial hash. The
// block still needs to be mined before it can join a chain.
func NewBlock(index uint64, trans []Tx, prevHash string) Block {
	if trans == nil {
		trans = []Tx{}
	}

	b := Block{
		Index:        index,
		Transactions: trans,
		TimeStamp:    Now(),
		PrevHash:     prevHash,
		Nonce:        0,
	}
	b.Hash = b.ComputeHash()

	return b
}

// NewGenesisBlock constructs and mines the first block of a chain.
func NewGenesisBlock(ctx context.Context, difficulty uint, evHandler func(v string, args ...any)) (Block, error) {
	b := NewBlock(0, nil, GenesisPrevHash)
	if err := b.Mine(ctx, difficulty, evHandler); err != nil {
		return Block{}, err
	}

	return b, nil
}

// ComputeHash returns the hash of the block content. The stored Hash field
// is not part of the content. An empty string is returned if the content
// can't be encoded, which never matches a stored hash.
func (b Block) ComputeHash() string {
	hash, err := b.digest()
	if err != nil {
		return ""
	}
	return hash
}

// Mine performs the proof of work by incrementing the nonce until the hash
// has the required number of leading zeros. The context is only checked so
// the node can shut down; there is no limit on the number of attempts.
func (b *Block) Mine(ctx context.Context, difficulty uint, evHandler func(v string, args ...any)) error {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	ev("database: Mine: MINING: started: blk[%d]", b.Index)
	defer ev("database: Mine: MINING: completed: blk[%d]", b.Index)

	for _, tx := range b.Transactions {
		ev("database: Mine: MINING: tx[%s]", tx)
	}

	var attempts uint64
	for !IsHashSolved(difficulty, b.Hash) {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		if ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED")
			return ctx.Err()
		}

		b.Nonce++
		b.Hash = b.ComputeHash()
	}

	ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.PrevHash, b.Hash, attempts)

	return nil
}

// digest encodes the block content canonically and hashes it.
func (b Block) digest() (string, error) {
	trans := make([]any, len(b.Transactions))
	for i, tx := range b.Transactions {
		trans[i] = tx.content()
	}

	content := map[string]any{
		"index":         b.Index,
		"transactions":  trans,
		"timestamp":     float64(b.TimeStamp),
		"previous_hash": b.PrevHash,
		"nonce":         b.Nonce,
	}

	data, err := canonical.Marshal(content)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:]), nil
}

// =============================================================================

// IsHashSolved checks the hash complies with the POW rules. The hash needs
// to start with a difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	return strings.HasPrefix(hash, strings.Repeat("0", int(difficulty)))
}
