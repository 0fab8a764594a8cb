package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/app/services/viewer/handlers"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestIndex(t *testing.T) {
	t.Log("Given the need to serve the viewer page.")
	{
		t.Logf("\tTest 0:\tWhen asking for the index page.")
		{
			app, err := handlers.UIMux(nil, zap.NewNop().Sugar(), "http://node-a:5000")
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to build the mux: %v", failed, err)
			}

			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200.", success)

			if !strings.Contains(w.Body.String(), "node-a:5000") {
				t.Fatalf("\t%s\tTest 0:\tShould point the page at the node.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould point the page at the node.", success)
		}
	}
}
