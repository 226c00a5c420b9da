// Package coingecko provides an HTTP client for the CoinGecko search API.
//
// # Overview
//
// The client issues a single GET /api/v3/search?query=<text> per call and
// decodes the JSON envelope into typed SearchResult values:
//
//	client, err := coingecko.NewClient("")
//	if err != nil {
//		log.Fatalf("init coingecko client: %v", err)
//	}
//	coins, err := client.Search(ctx, "eth")
//
// # Error Handling
//
// Every failure is a *Error of one of two kinds:
//
//   - KindNetwork: URL construction, transport failures and HTTP status >= 400
//   - KindParsing: malformed JSON, type mismatches and missing required fields
//
// Match them with errors.Is(err, coingecko.ErrNetwork) or ErrParsing.
//
// # Decoding
//
// All coin fields are required except market_cap_rank. A missing rank (absent
// or null) is reported as a nil MarketCapRank rather than zero. The decoder
// never returns a partially built list.
//
// # Design Rationale
//
// The client is intentionally minimal:
//   - No caching
//   - No retries
//   - No authentication (public endpoint)
//
// Client holds no mutable state after construction and is safe for concurrent use.
package coingecko
