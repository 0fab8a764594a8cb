package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// Set of peer endpoints this node is a client of.
const (
	chainURL   = "http://%s/chain"
	resolveURL = "http://%s/nodes/resolve"
)

// Set of errors returned when talking to a peer. None of them are fatal to
// the node, the peer is skipped.
var (
	ErrPeerUnreachable       = errors.New("peer unreachable")
	ErrPeerTimeout           = errors.New("peer timed out")
	ErrPeerStatus            = errors.New("peer returned an unexpected status")
	ErrMalformedPeerResponse = errors.New("malformed peer response")
)

// =============================================================================

// ChainResponse is the document returned by a node's chain endpoint.
type ChainResponse struct {
	Chain  []database.Block `json:"chain"`
	Length int              `json:"length"`
}

// NetRequestPeerChain asks the peer for its full chain. The blocks keep the
// hashes the peer claims for them and must be validated before use.
func (s *State) NetRequestPeerChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	s.evHandler("state: NetRequestPeerChain: started: %s", pr)
	defer s.evHandler("state: NetRequestPeerChain: completed: %s", pr)

	url := fmt.Sprintf(chainURL, pr.Host)

	var resp ChainResponse
	if err := s.send(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", pr, err)
	}

	if len(resp.Chain) == 0 {
		return nil, fmt.Errorf("%s: %w: no blocks", pr, ErrMalformedPeerResponse)
	}

	s.evHandler("state: NetRequestPeerChain: peer-node[%s]: length[%d]", pr, len(resp.Chain))

	return resp.Chain, nil
}

// NetSendResolveToPeers asks every known peer to resolve conflicts against
// the network. Failures are logged and the remaining peers are still asked.
func (s *State) NetSendResolveToPeers(ctx context.Context) {
	s.evHandler("state: NetSendResolveToPeers: started")
	defer s.evHandler("state: NetSendResolveToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		url := fmt.Sprintf(resolveURL, pr.Host)
		if err := s.send(ctx, http.MethodGet, url, nil, nil); err != nil {
			s.evHandler("state: NetSendResolveToPeers: WARNING: %s: %s", pr, err)
			continue
		}

		s.evHandler("state: NetSendResolveToPeers: sent to peer[%s]", pr)
	}
}

// =============================================================================

// send is a helper function to send an HTTP request to a node. The client
// timeout bounds the whole exchange.
func (s *State) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPeerUnreachable, err)
	}

	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return fmt.Errorf("%w: %s", ErrPeerTimeout, err)
		}
		return fmt.Errorf("%w: %s", ErrPeerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d: %s", ErrPeerStatus, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedPeerResponse, err)
		}
	}

	return nil
}
