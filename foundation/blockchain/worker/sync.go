package worker

// Sync pulls the chains of the known peers and adopts the longest valid one.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	if len(w.state.RetrieveKnownPeers()) == 0 {
		w.evHandler("worker: sync: no known peers")
		return
	}

	if w.state.ResolveConflicts(w.ctx) {
		latest := w.state.RetrieveLatestBlock()
		w.evHandler("worker: sync: chain replaced: latest blk[%d]: hash[%s]", latest.Index, latest.Hash)
	}
}
