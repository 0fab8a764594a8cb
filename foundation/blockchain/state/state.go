// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// DefaultPeerTimeout bounds every request made to a peer.
const DefaultPeerTimeout = 5 * time.Second

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the blockchain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background peer synchronization.
type Worker interface {
	Shutdown()
	SignalResolve()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	NodeID       string
	Host         string
	Difficulty   uint
	MiningReward uint64
	PeerTimeout  time.Duration
	KnownPeers   *peer.PeerSet
	EvHandler    EventHandler
}

// State manages the blockchain held in memory.
type State struct {
	nodeID       string
	host         string
	difficulty   uint
	miningReward uint64
	evHandler    EventHandler
	client       *http.Client

	mu    sync.RWMutex
	chain []database.Block

	// mining holds a token while a block is being produced so only one
	// mining operation runs at a time.
	mining chan struct{}

	// ctx is cancelled by Shutdown to stop any mining in progress.
	ctx      context.Context
	cancel   context.CancelFunc
	shutOnce sync.Once

	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool

	Worker Worker
}

// New constructs a new blockchain for data management. The genesis block is
// mined at the configured difficulty before New returns.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	timeout := cfg.PeerTimeout
	if timeout <= 0 {
		timeout = DefaultPeerTimeout
	}

	// The host is compared against peer addresses so it must be in the
	// same form. An address that can't be normalized never matches a peer.
	host := cfg.Host
	if h, err := peer.Normalize(cfg.Host); err == nil {
		host = h
	}

	ctx, cancel := context.WithCancel(context.Background())

	genesis, err := database.NewGenesisBlock(ctx, cfg.Difficulty, ev)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("mining genesis block: %w", err)
	}

	state := State{
		nodeID:       cfg.NodeID,
		host:         host,
		difficulty:   cfg.Difficulty,
		miningReward: cfg.MiningReward,
		evHandler:    ev,
		client:       &http.Client{Timeout: timeout},

		chain:  []database.Block{genesis},
		mining: make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,

		knownPeers: knownPeers,
		mempool:    mempool.New(),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down. Calls after the first do nothing.
func (s *State) Shutdown() error {
	s.shutOnce.Do(func() {
		s.evHandler("state: shutdown: started")
		defer s.evHandler("state: shutdown: completed")

		// Stop the background synchronization.
		if s.Worker != nil {
			s.Worker.Shutdown()
		}

		// Stop any mining in progress.
		s.cancel()
	})

	return nil
}

// ValidateChain runs the chain rules against the local chain.
func (s *State) ValidateChain() error {
	return database.ValidateChain(s.RetrieveChain(), s.difficulty)
}
