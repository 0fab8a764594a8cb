package public

import (
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// Routes binds all the node routes. The ledger routes live at the root so
// any node speaking the same protocol can act as a peer.
func Routes(app *web.App, cfg Config) {
	pbl := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, "", "/mine", pbl.Mine)
	app.Handle(http.MethodPost, "", "/transactions/new", pbl.AddTransaction)
	app.Handle(http.MethodGet, "", "/chain", pbl.Chain)
	app.Handle(http.MethodPost, "", "/nodes/register", pbl.RegisterNodes)
	app.Handle(http.MethodGet, "", "/nodes/resolve", pbl.Resolve)
	app.Handle(http.MethodGet, "", "/nodes", pbl.Nodes)
	app.Handle(http.MethodGet, "", "/pending", pbl.Pending)
	app.Handle(http.MethodGet, "", "/validate", pbl.Validate)

	const version = "v1"

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
}
