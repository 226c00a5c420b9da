// Package ui provides the Bubble Tea terminal interface for coinsearch.
//
// # Layout
//
// The screen is a single view: a title bar with the fetch status, a search
// field, the result list and a footer with the selected coin's identifiers
// and short help. Each row shows the coin name and symbol with its market
// cap rank, or "Market Cap Rank: undefined" when CoinGecko has none. An empty
// list shows "No results, try searching something else".
//
// # Event Flow
//
//  1. Run() builds the Model from the pipeline's current snapshot
//  2. Keystrokes that change the search field call QueryPipeline.SetQueryText
//  3. A command blocks on the subscription channel and turns each
//     state.Snapshot into a message, so results are applied on the
//     program loop
//  4. Closing the subscription or cancelling the context ends the program
//
// # Key Bindings
//
// Printable keys edit the query. Navigation and global actions use control
// and function keys:
//
//   - up/down or ctrl+p/ctrl+n: Move selection
//   - pgup/pgdown: Page through results
//   - ctrl+t: Cycle theme
//   - f1: Toggle help
//   - esc or ctrl+c: Exit
package ui
