package coingecko

import (
	"encoding/json"
	"fmt"
)

// DecodeSearchResponse decodes a /api/v3/search body. Any missing required
// field, type mismatch or malformed JSON yields a KindParsing error and no
// partial result.
func DecodeSearchResponse(data []byte) (SearchResponse, error) {
	env, err := decode[searchEnvelope](data)
	if err != nil {
		return SearchResponse{}, err
	}
	if env.Coins == nil {
		return SearchResponse{}, parsingError("missing required field \"coins\"", nil)
	}

	coins := make([]SearchResult, 0, len(*env.Coins))
	for i, wc := range *env.Coins {
		coin, err := wc.toResult()
		if err != nil {
			return SearchResponse{}, parsingError(fmt.Sprintf("coins[%d]", i), err)
		}
		coins = append(coins, coin)
	}
	return SearchResponse{Coins: coins}, nil
}

func decode[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, parsingError("decode response", err)
	}
	return out, nil
}

func (w wireCoin) toResult() (SearchResult, error) {
	required := []struct {
		name  string
		value *string
	}{
		{"id", w.ID},
		{"name", w.Name},
		{"api_symbol", w.APISymbol},
		{"symbol", w.Symbol},
		{"thumb", w.Thumb},
		{"large", w.Large},
	}
	for _, field := range required {
		if field.value == nil {
			return SearchResult{}, fmt.Errorf("missing required field %q", field.name)
		}
	}

	var rank *int
	if w.MarketCapRank != nil {
		r := *w.MarketCapRank
		rank = &r
	}
	return SearchResult{
		ID:            *w.ID,
		Name:          *w.Name,
		APISymbol:     *w.APISymbol,
		Symbol:        *w.Symbol,
		MarketCapRank: rank,
		Thumb:         *w.Thumb,
		Large:         *w.Large,
	}, nil
}
