// Package config loads coinsearch's TOML configuration.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/coinsearch/config.toml
//  3. If the file doesn't exist, use defaults
//  4. Empty or non-positive values fall back to defaults
//
// # TOML Format
//
//	api_base = "https://api.coingecko.com"
//	debounce_ms = 500
//	request_timeout_sec = 10
//	drop_stale_responses = false
//	theme = "Dracula"
//	log_level = "info"
//	log_file = "~/.local/state/coinsearch/coinsearch.log"
//	metrics_addr = ""          # e.g. "127.0.0.1:9464"; empty disables
//
// All keys are optional. Tilde expansion is applied to log_file.
//
// Missing config files are not an error, so coinsearch works without any
// configuration.
package config
