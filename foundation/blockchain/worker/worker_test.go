package worker_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Worker(t *testing.T) {
	t.Log("Given the need to keep the chain in line with the peers.")
	{
		x := newState(t, nil)
		for i := 0; i < 2; i++ {
			x.AddTransaction("A", "B", "1")
			if _, err := x.MinePendingTransactions(context.Background(), "M1"); err != nil {
				t.Fatalf("\t%s\tShould be able to mine: %v", failed, err)
			}
		}
		xHost := serve(t, x)

		t.Logf("\tTest 0:\tWhen the node starts with a known peer.")
		{
			pr, err := peer.New(xHost)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to parse the peer: %v", failed, err)
			}
			peers := peer.NewPeerSet()
			peers.Add(pr)

			y := newState(t, peers)
			worker.Run(y, 0, nil)

			if y.QueryChainLength() != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould sync before returning, got length %d.", failed, y.QueryChainLength())
			}
			t.Logf("\t%s\tTest 0:\tShould sync before returning.", success)
		}

		t.Logf("\tTest 1:\tWhen a peer is registered later.")
		{
			y := newState(t, nil)
			worker.Run(y, 0, nil)

			if _, err := y.RegisterPeers([]string{xHost}); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to register: %v", failed, err)
			}

			if !waitForLength(y, 3) {
				t.Fatalf("\t%s\tTest 1:\tShould resolve in the background.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould resolve in the background.", success)
		}

		t.Logf("\tTest 2:\tWhen polling is on.")
		{
			z := newState(t, nil)
			zHost := serve(t, z)

			y := newState(t, nil)
			if _, err := y.RegisterPeers([]string{zHost}); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to register: %v", failed, err)
			}
			worker.Run(y, 10*time.Millisecond, nil)

			z.AddTransaction("A", "B", "1")
			if _, err := z.MinePendingTransactions(context.Background(), "M1"); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to mine: %v", failed, err)
			}

			if !waitForLength(y, 2) {
				t.Fatalf("\t%s\tTest 2:\tShould pick up the new block on the next poll.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould pick up the new block on the next poll.", success)
		}
	}
}

// =============================================================================

func newState(t *testing.T, peers *peer.PeerSet) *state.State {
	st, err := state.New(state.Config{
		NodeID:       "node_test",
		Difficulty:   2,
		MiningReward: 1,
		KnownPeers:   peers,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	t.Cleanup(func() { st.Shutdown() })

	return st
}

func serve(t *testing.T, st *state.State) string {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chain := st.RetrieveChain()
		json.NewEncoder(w).Encode(state.ChainResponse{Chain: chain, Length: len(chain)})
	}))
	t.Cleanup(srv.Close)

	return strings.TrimPrefix(srv.URL, "http://")
}

func waitForLength(st *state.State, n int) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if st.QueryChainLength() == n {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
