package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Ledger(t *testing.T) {
	app := newApp(t)

	t.Log("Given the need to run the ledger through the API.")
	{
		t.Logf("\tTest 0:\tWhen submitting a transaction.")
		{
			w := call(app, http.MethodPost, "/transactions/new", `{"sender":"A","recipient":"B","amount":10}`)
			if w.Code != http.StatusCreated {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 201, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 201.", success)

			var resp struct {
				Message string `json:"message"`
			}
			decode(t, w, &resp)

			if resp.Message != "Transaction added to the block 1" {
				t.Fatalf("\t%s\tTest 0:\tShould be told the block index, got %q.", failed, resp.Message)
			}
			t.Logf("\t%s\tTest 0:\tShould be told the block index.", success)
		}

		t.Logf("\tTest 1:\tWhen checking the pending transactions.")
		{
			w := call(app, http.MethodGet, "/pending", "")

			var resp struct {
				Transactions []database.Tx `json:"transactions"`
				Count        int           `json:"count"`
			}
			decode(t, w, &resp)

			if w.Code != http.StatusOK || resp.Count != 1 || resp.Transactions[0].Amount != "10" {
				t.Fatalf("\t%s\tTest 1:\tShould see the submitted transaction, got %d %+v.", failed, w.Code, resp)
			}
			t.Logf("\t%s\tTest 1:\tShould see the submitted transaction.", success)
		}

		t.Logf("\tTest 2:\tWhen mining the pending transactions.")
		{
			w := call(app, http.MethodGet, "/mine", "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 2:\tShould receive a status code of 200, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 2:\tShould receive a status code of 200.", success)

			var resp struct {
				Message string         `json:"message"`
				Block   database.Block `json:"block"`
			}
			decode(t, w, &resp)

			if resp.Block.Index != 1 || len(resp.Block.Transactions) != 2 || !strings.HasPrefix(resp.Block.Hash, "00") {
				t.Fatalf("\t%s\tTest 2:\tShould get the mined block, got %+v.", failed, resp.Block)
			}
			t.Logf("\t%s\tTest 2:\tShould get the mined block.", success)

			reward := resp.Block.Transactions[1]
			if reward.Sender != database.RewardSender || reward.Recipient != "node_test" || reward.Amount != "1" {
				t.Fatalf("\t%s\tTest 2:\tShould credit the node, got %s.", failed, reward)
			}
			t.Logf("\t%s\tTest 2:\tShould credit the node.", success)
		}

		t.Logf("\tTest 3:\tWhen mining with nothing pending.")
		{
			w := call(app, http.MethodGet, "/mine", "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 3:\tShould receive a status code of 400, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 3:\tShould receive a status code of 400.", success)

			var resp errs.Message
			decode(t, w, &resp)

			if resp.Message != "No transactions to mine" {
				t.Fatalf("\t%s\tTest 3:\tShould be told nothing is pending, got %q.", failed, resp.Message)
			}
			t.Logf("\t%s\tTest 3:\tShould be told nothing is pending.", success)
		}

		t.Logf("\tTest 4:\tWhen reading the chain.")
		{
			w := call(app, http.MethodGet, "/chain", "")

			var resp state.ChainResponse
			decode(t, w, &resp)

			if w.Code != http.StatusOK || resp.Length != 2 || len(resp.Chain) != 2 {
				t.Fatalf("\t%s\tTest 4:\tShould get both blocks, got %d %d.", failed, w.Code, resp.Length)
			}
			t.Logf("\t%s\tTest 4:\tShould get both blocks.", success)

			if !database.IsChainValid(resp.Chain, 2) {
				t.Fatalf("\t%s\tTest 4:\tShould get a chain that validates after decoding.", failed)
			}
			t.Logf("\t%s\tTest 4:\tShould get a chain that validates after decoding.", success)
		}

		t.Logf("\tTest 5:\tWhen validating the chain.")
		{
			w := call(app, http.MethodGet, "/validate", "")

			var resp struct {
				Message string `json:"message"`
				Valid   bool   `json:"valid"`
			}
			decode(t, w, &resp)

			if !resp.Valid || resp.Message != "The blockchain is valid" {
				t.Fatalf("\t%s\tTest 5:\tShould report a valid chain, got %+v.", failed, resp)
			}
			t.Logf("\t%s\tTest 5:\tShould report a valid chain.", success)
		}

		t.Logf("\tTest 6:\tWhen resolving without peers.")
		{
			w := call(app, http.MethodGet, "/nodes/resolve", "")

			var resp struct {
				Message string           `json:"message"`
				Chain   []database.Block `json:"chain"`
			}
			decode(t, w, &resp)

			if resp.Message != "Our chain is authoritative" || len(resp.Chain) != 2 {
				t.Fatalf("\t%s\tTest 6:\tShould keep the local chain, got %+v.", failed, resp.Message)
			}
			t.Logf("\t%s\tTest 6:\tShould keep the local chain.", success)
		}
	}
}

func Test_BadRequests(t *testing.T) {
	app := newApp(t)

	t.Log("Given the need to reject bad requests.")
	{
		tt := []struct {
			name   string
			method string
			path   string
			body   string
			field  string
		}{
			{"missing recipient", http.MethodPost, "/transactions/new", `{"sender":"A","amount":1}`, "recipient"},
			{"missing amount", http.MethodPost, "/transactions/new", `{"sender":"A","recipient":"B"}`, "amount"},
			{"empty sender", http.MethodPost, "/transactions/new", `{"sender":"","recipient":"B","amount":1}`, "sender"},
			{"bad json", http.MethodPost, "/transactions/new", `{"sender":`, ""},
			{"bad amount", http.MethodPost, "/transactions/new", `{"sender":"A","recipient":"B","amount":"ten"}`, ""},
			{"missing nodes", http.MethodPost, "/nodes/register", `{}`, "nodes"},
			{"empty nodes", http.MethodPost, "/nodes/register", `{"nodes":[]}`, "nodes"},
			{"nodes not a list", http.MethodPost, "/nodes/register", `{"nodes":"node-b:5001"}`, ""},
			{"invalid address", http.MethodPost, "/nodes/register", `{"nodes":["node-b:5001","host:notaport"]}`, ""},
		}

		for testID, test := range tt {
			tf := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen sending %s.", testID, test.name)
				{
					w := call(app, test.method, test.path, test.body)
					if w.Code != http.StatusBadRequest {
						t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 400, got %d.", failed, testID, w.Code)
					}
					t.Logf("\t%s\tTest %d:\tShould receive a status code of 400.", success, testID)

					var resp errs.Response
					decode(t, w, &resp)

					if resp.Error == "" {
						t.Fatalf("\t%s\tTest %d:\tShould get an error message.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get an error message.", success, testID)

					if test.field != "" {
						if _, exists := resp.Fields[test.field]; !exists {
							t.Fatalf("\t%s\tTest %d:\tShould name the field %q, got %v.", failed, testID, test.field, resp.Fields)
						}
						t.Logf("\t%s\tTest %d:\tShould name the field %q.", success, testID, test.field)
					}
				}
			}

			t.Run(test.name, tf)
		}

		t.Logf("\tTest %d:\tWhen a registration is rejected.", len(tt))
		{
			w := call(app, http.MethodGet, "/nodes", "")

			var resp struct {
				Nodes []string `json:"nodes"`
				Count int      `json:"count"`
			}
			decode(t, w, &resp)

			if resp.Count != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not register any of the nodes, got %v.", failed, len(tt), resp.Nodes)
			}
			t.Logf("\t%s\tTest %d:\tShould not register any of the nodes.", success, len(tt))
		}
	}
}

func Test_RegisterNodes(t *testing.T) {
	app := newApp(t)

	t.Log("Given the need to register peers.")
	{
		t.Logf("\tTest 0:\tWhen registering the same peer in different forms.")
		{
			w := call(app, http.MethodPost, "/nodes/register", `{"nodes":["http://Node-B:5001/","node-b:5001","node-c"]}`)
			if w.Code != http.StatusCreated {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 201, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 201.", success)

			var resp struct {
				Message    string   `json:"message"`
				TotalNodes []string `json:"total_nodes"`
			}
			decode(t, w, &resp)

			exp := []string{"node-b:5001", "node-c:5000"}
			if len(resp.TotalNodes) != len(exp) || resp.TotalNodes[0] != exp[0] || resp.TotalNodes[1] != exp[1] {
				t.Fatalf("\t%s\tTest 0:\tShould get %v, got %v.", failed, exp, resp.TotalNodes)
			}
			t.Logf("\t%s\tTest 0:\tShould get the normalized peers.", success)
		}

		t.Logf("\tTest 1:\tWhen listing the peers.")
		{
			w := call(app, http.MethodGet, "/nodes", "")

			var resp struct {
				Nodes []string `json:"nodes"`
				Count int      `json:"count"`
			}
			decode(t, w, &resp)

			if w.Code != http.StatusOK || resp.Count != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould list both peers, got %v.", failed, resp.Nodes)
			}
			t.Logf("\t%s\tTest 1:\tShould list both peers.", success)
		}
	}
}

func Test_QuotedAmount(t *testing.T) {
	app := newApp(t)

	t.Log("Given the need to accept an amount sent as a numeric string.")
	{
		t.Logf("\tTest 0:\tWhen submitting the amount in quotes.")
		{
			w := call(app, http.MethodPost, "/transactions/new", `{"sender":"A","recipient":"B","amount":"10"}`)
			if w.Code != http.StatusCreated {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 201, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 201.", success)

			w = call(app, http.MethodGet, "/pending", "")
			if !strings.Contains(w.Body.String(), `"amount":10`) {
				t.Fatalf("\t%s\tTest 0:\tShould store the amount as a number, got %s.", failed, w.Body.String())
			}
			t.Logf("\t%s\tTest 0:\tShould store the amount as a number.", success)
		}
	}
}

// =============================================================================

func newApp(t *testing.T) http.Handler {
	st, err := state.New(state.Config{
		NodeID:       "node_test",
		Host:         "127.0.0.1:5000",
		Difficulty:   2,
		MiningReward: 1,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}
	t.Cleanup(func() { st.Shutdown() })

	return handlers.PublicMux(handlers.MuxConfig{
		Log:   zap.NewNop().Sugar(),
		State: st,
		Evts:  events.New(),
	})
}

func call(app http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("\t%s\tShould be able to unmarshal the response: %v", failed, err)
	}
}
