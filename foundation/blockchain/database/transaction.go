package database

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/canonical"
)

// RewardSender is the sender recorded on the transaction that credits the
// miner of a block. Reward transactions never pass through the mempool.
const RewardSender = "Network"

// =============================================================================

// Timestamp represents seconds since the Unix epoch with sub-second precision.
type Timestamp float64

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return Timestamp(float64(time.Now().UnixNano()) / float64(time.Second))
}

// MarshalJSON always writes the value with a fractional part so peers that
// decode it get a float back and hash the same bytes.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(canonical.Float(float64(ts))), nil
}

// =============================================================================

// Tx is the transactional information between two parties. The amount keeps
// the number literal it was submitted with.
type Tx struct {
	Sender    string      `json:"sender"`
	Recipient string      `json:"recipient"`
	Amount    json.Number `json:"amount"`
	TimeStamp Timestamp   `json:"timestamp"`
}

// NewTx constructs a new transaction stamped with the current time.
func NewTx(sender string, recipient string, amount json.Number) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		TimeStamp: Now(),
	}
}

// NewRewardTx constructs the transaction that credits a miner for a block.
func NewRewardTx(minerID string, reward uint64) Tx {
	return NewTx(RewardSender, minerID, json.Number(strconv.FormatUint(reward, 10)))
}

// String implements the Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%s", tx.Sender, tx.Recipient, tx.Amount)
}

// content returns the value hashed for this transaction as part of a block.
func (tx Tx) content() map[string]any {
	return map[string]any{
		"sender":    tx.Sender,
		"recipient": tx.Recipient,
		"amount":    tx.Amount,
		"timestamp": float64(tx.TimeStamp),
	}
}
