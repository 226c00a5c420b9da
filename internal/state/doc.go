// Package state provides the observable state container for coin searches.
//
// # Overview
//
// Store holds the current query text and result list. The search pipeline is
// the single writer; the UI and tests are readers. Readers either take a
// Snapshot on demand or Subscribe to change notifications.
//
// # Update Semantics
//
//	store.SetQuery("btc")
//	→ snapshot.Query = "btc"
//	→ subscribers receive Change = ChangeQuery
//
//	store.Update(seq, query, results, nil)
//	→ snapshot.Results = results (replaced, never merged)
//	→ snapshot.ResultsQuery = query
//	→ snapshot.LastError = nil
//
//	store.Update(seq, query, nil, err)
//	→ snapshot.Results = empty
//	→ snapshot.LastError = err
//
// HasFetched distinguishes "no fetch has settled yet" from "the last fetch
// returned nothing"; both have an empty result list. Settled reports whether
// the result list belongs to the current query: a fetch for an older query may
// settle after the query has moved on.
//
// # Delivery
//
// Changes are queued in the order they are applied, and a single dispatcher
// goroutine delivers each one to every subscriber before moving on to the
// next. Observers see changes in exactly that order, on a goroutine that is
// neither the keystroke caller nor the network goroutine. Writers never wait
// for subscribers.
//
// Both Snapshot and delivered values are deep copies.
//
// # Lifetime
//
// Close stops the dispatcher and closes every subscriber channel. A closed
// Subscription stops receiving but its channel stays open.
package state
