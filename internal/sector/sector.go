// Package sector resolves tickers to sector and market-cap categories
// from a static mapping file.
package sector

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Info is the classification for one ticker.
type Info struct {
	Sector    string `json:"sector"`
	MarketCap string `json:"market_cap"`
}

// Table is a read-only ticker lookup, safe for concurrent use.
type Table struct {
	byTicker map[string]Info
}

// Load reads a JSON mapping of ticker -> Info from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sector data: %w", err)
	}
	byTicker := make(map[string]Info)
	if err := json.Unmarshal(data, &byTicker); err != nil {
		return nil, fmt.Errorf("parse sector data: %w", err)
	}
	normalized := make(map[string]Info, len(byTicker))
	for ticker, info := range byTicker {
		normalized[strings.ToUpper(strings.TrimSpace(ticker))] = info
	}
	return &Table{byTicker: normalized}, nil
}

// Empty returns a table that resolves every ticker to the defaults.
func Empty() *Table {
	return &Table{byTicker: map[string]Info{}}
}

// Lookup returns the classification for a ticker. Unknown tickers resolve
// to sector "Unknown" with an empty market cap.
func (t *Table) Lookup(ticker string) Info {
	if info, ok := t.byTicker[strings.ToUpper(strings.TrimSpace(ticker))]; ok {
		return info
	}
	return Info{Sector: "Unknown"}
}

// Len reports how many tickers are mapped.
func (t *Table) Len() int {
	return len(t.byTicker)
}
