// Package search implements the debounced coin search pipeline.
//
// # Overview
//
// Pipeline sits between a text field and the CoinGecko client. Every
// keystroke is passed to SetQueryText; once the query has been quiet for the
// debounce window (500ms by default) a single search is issued with the
// query value current at that moment, and its outcome replaces the result
// list in the pipeline's state.Store.
//
//	p := search.New(client, search.Options{Logger: logger})
//	defer p.Close()
//
//	sub := p.Subscribe()
//	p.SetQueryText("eth")
//	for snap := range sub.C {
//		render(snap.Results)
//	}
//
// # Timing
//
//	New ──> Query = "", debounce timer armed for it
//	keystroke ──> Query updated immediately
//	          └─> debounce timer replaced (old one cancelled)
//	timer expiry ──> Search(ctx, current query)
//	settle ──> success: Results = decoded list
//	       └─> failure: Results = empty, LastError recorded
//
// Only one debounce timer is live at a time. A timer that had already fired
// when it was replaced is ignored via a generation counter, so each settled
// burst initiates at most one fetch. Identical consecutive queries are not
// de-duplicated.
//
// # Stale Responses
//
// A newer debounce cycle does not cancel an in-flight fetch. By default
// results are applied in completion order, so a slow earlier response can
// overwrite a faster later one. Options.DropStale numbers each fetch and
// discards completions older than the last applied one.
//
// # Errors
//
// Network and parsing failures are logged and turn into an empty result
// list. The error is also kept in Snapshot.LastError for consumers that want
// to show it.
//
// # Shutdown
//
// Close stops the pending timer, cancels in-flight fetches through the
// pipeline context, waits for them to return and closes all subscriptions.
package search
