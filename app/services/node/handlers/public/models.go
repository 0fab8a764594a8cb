package public

import (
	"encoding/json"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// newTx is the document accepted to submit a transaction.
type newTx struct {
	Sender    string      `json:"sender" validate:"required"`
	Recipient string      `json:"recipient" validate:"required"`
	Amount    json.Number `json:"amount" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (n newTx) Validate() error {
	return validate.Check(n)
}

// newNodes is the document accepted to register peers.
type newNodes struct {
	Nodes []string `json:"nodes" validate:"required,min=1"`
}

// Validate checks the data in the model is considered clean.
func (n newNodes) Validate() error {
	return validate.Check(n)
}

// =============================================================================

type mined struct {
	Message string         `json:"message"`
	Block   database.Block `json:"block"`
}

type registered struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type authoritative struct {
	Message string           `json:"message"`
	Chain   []database.Block `json:"chain"`
}

type replaced struct {
	Message  string           `json:"message"`
	NewChain []database.Block `json:"new_chain"`
}

type pending struct {
	Transactions []database.Tx `json:"transactions"`
	Count        int           `json:"count"`
}

type validity struct {
	Message string `json:"message"`
	Valid   bool   `json:"valid"`
}

type nodes struct {
	Nodes []string `json:"nodes"`
	Count int      `json:"count"`
}
