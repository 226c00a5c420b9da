// Package app wires configuration, logging, the CoinGecko client, metrics,
// the search pipeline and the UI into the coinsearch application.
//
// # Startup
//
//  1. Load ~/.config/coinsearch/config.toml (or the -config path) and apply
//     CLI overrides
//  2. Open the zap log file; the TUI owns the terminal
//  3. Build the coingecko.Client with the configured request timeout
//  4. Register Prometheus collectors on a private registry and, when
//     metrics_addr is set, serve /metrics in the background
//  5. Create the search.Pipeline and subscribe to its snapshots
//  6. Seed the initial query, if any, and run the Bubble Tea program
//
// # Components
//
//   - app.go: Run and CLI overrides
//   - metrics.go: Background metrics endpoint with restart backoff
//
// # Shutdown
//
// When the UI exits, the context is cancelled, the metrics endpoint is shut
// down gracefully, and deferred calls close the subscription and the
// pipeline. Closing the pipeline stops its debounce timer, cancels in-flight
// requests and waits for them to settle.
//
// # Error Handling
//
// Only startup errors (config, logger, client) are returned. Search failures
// never reach this package: the pipeline logs them and publishes an empty
// result list.
package app
