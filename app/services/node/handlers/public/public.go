// Package public maintains the group of handlers for the node API.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Mine mines every pending transaction into a new block credited to this node.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MinePendingTransactions(ctx, h.State.RetrieveNodeID())
	if err != nil {
		if errors.Is(err, state.ErrNoTransactions) {
			return web.Respond(ctx, w, errs.Message{Message: "No transactions to mine"}, http.StatusBadRequest)
		}
		return fmt.Errorf("mining: %w", err)
	}

	metrics.AddBlocks(ctx)

	resp := mined{
		Message: "Block successfully mined",
		Block:   block,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AddTransaction adds a new transaction to the mempool.
func (h Handlers) AddTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nt newTx
	if err := web.Decode(r, &nt); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	index := h.State.AddTransaction(nt.Sender, nt.Recipient, nt.Amount)

	h.Log.Infow("add tran", "traceid", web.GetTraceID(ctx), "sender", nt.Sender, "recipient", nt.Recipient, "amount", nt.Amount, "block", index)

	resp := errs.Message{
		Message: fmt.Sprintf("Transaction added to the block %d", index),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Chain returns the full chain held by this node.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()

	resp := state.ChainResponse{
		Chain:  chain,
		Length: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// RegisterNodes adds the provided addresses to the set of known peers.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nn newNodes
	if err := web.Decode(r, &nn); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	known, err := h.State.RegisterPeers(nn.Nodes)
	if err != nil {
		return fmt.Errorf("registering nodes: %w", err)
	}

	resp := registered{
		Message:    "New nodes have been added",
		TotalNodes: hosts(known),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Resolve runs the longest valid chain rule against the known peers.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.ResolveConflicts(ctx) {
		resp := replaced{
			Message:  "Our chain was replaced",
			NewChain: h.State.RetrieveChain(),
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}

	resp := authoritative{
		Message: "Our chain is authoritative",
		Chain:   h.State.RetrieveChain(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Pending returns the set of transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := h.State.RetrieveMempool()

	resp := pending{
		Transactions: trans,
		Count:        len(trans),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Validate reports whether the local chain passes the chain rules.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := validity{
		Message: "The blockchain is valid",
		Valid:   true,
	}

	if err := h.State.ValidateChain(); err != nil {
		h.Log.Infow("validate", "traceid", web.GetTraceID(ctx), "ERROR", err)
		resp = validity{
			Message: "The blockchain is not valid",
			Valid:   false,
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Nodes returns the set of known peers.
func (h Handlers) Nodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	known := hosts(h.State.RetrieveKnownPeers())

	resp := nodes{
		Nodes: known,
		Count: len(known),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id := uuid.NewString()

	ch := h.Evts.Acquire(id)
	defer h.Evts.Release(id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, open := <-ch:
			if !open {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================

func hosts(peers []peer.Peer) []string {
	hs := make([]string, len(peers))
	for i, pr := range peers {
		hs[i] = pr.Host
	}
	return hs
}
