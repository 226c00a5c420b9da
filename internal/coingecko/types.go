package coingecko

// SearchResult is a single coin returned by /api/v3/search.
type SearchResult struct {
	ID        string
	Name      string
	APISymbol string
	Symbol    string
	// MarketCapRank is nil when CoinGecko has no rank for the coin.
	MarketCapRank *int
	Thumb         string
	Large         string
}

// Rank returns the market cap rank and whether one is known.
func (r SearchResult) Rank() (int, bool) {
	if r.MarketCapRank == nil {
		return 0, false
	}
	return *r.MarketCapRank, true
}

// SearchResponse is the decoded /api/v3/search envelope.
type SearchResponse struct {
	Coins []SearchResult
}

// searchEnvelope mirrors the wire payload. Pointers distinguish missing
// fields from zero values so required fields can be enforced.
type searchEnvelope struct {
	Coins *[]wireCoin `json:"coins"`
}

type wireCoin struct {
	ID            *string `json:"id"`
	Name          *string `json:"name"`
	APISymbol     *string `json:"api_symbol"`
	Symbol        *string `json:"symbol"`
	MarketCapRank *int    `json:"market_cap_rank"`
	Thumb         *string `json:"thumb"`
	Large         *string `json:"large"`
}
