package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestCall(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/transactions/new":
			json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message":"Transaction added to the block 1"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"No transactions to mine"}`))
		}
	}))
	defer srv.Close()

	url = srv.URL + "/"
	timeout = time.Second

	t.Log("Given the need to talk to a node.")
	{
		t.Logf("\tTest 0:\tWhen sending a transaction.")
		{
			sender, recipient, amount = "A", "B", "2.5"

			var out bytes.Buffer
			sendCmd.SetOut(&out)
			if err := sendRun(sendCmd, nil); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to send: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to send.", success)

			if got["amount"] != 2.5 || got["sender"] != "A" || got["recipient"] != "B" {
				t.Fatalf("\t%s\tTest 0:\tShould send the amount as a number, got %v.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould send the amount as a number.", success)

			if !strings.Contains(out.String(), `"message": "Transaction added to the block 1"`) {
				t.Fatalf("\t%s\tTest 0:\tShould print the indented response, got %s.", failed, out.String())
			}
			t.Logf("\t%s\tTest 0:\tShould print the indented response.", success)
		}

		t.Logf("\tTest 1:\tWhen the amount is not a number.")
		{
			amount = "ten"
			if err := sendRun(sendCmd, nil); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould refuse to send.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould refuse to send.", success)
		}

		t.Logf("\tTest 2:\tWhen the node rejects the request.")
		{
			var out bytes.Buffer
			if err := call(&out, http.MethodGet, "/mine", nil, http.StatusOK); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould return an error.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould return an error.", success)

			if !strings.Contains(out.String(), "No transactions to mine") {
				t.Fatalf("\t%s\tTest 2:\tShould still print the response, got %s.", failed, out.String())
			}
			t.Logf("\t%s\tTest 2:\tShould still print the response.", success)
		}
	}
}
