package market

import (
	"errors"
	"time"
)

// ErrNotFound is the only error the client's lookup operations return. It
// covers genuinely missing items as well as transport and parse failures,
// which are logged and degraded so analysis code downstream always sees
// either a valid value or an explicit absence.
var ErrNotFound = errors.New("market: item not found")

// ItemPrice is the current price record for a single item.
type ItemPrice struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Volume    int64     `json:"volume,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PricePoint is one day of price history.
type PricePoint struct {
	Time   time.Time `json:"time"`
	Price  float64   `json:"price"`
	Volume int64     `json:"volume,omitempty"`
}

// SearchResult is a catalog entry matched against a search query.
type SearchResult struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Volume int64  `json:"volume"`
	Icon   string `json:"icon,omitempty"`
}

// CatalogEntry is one item of the bulk catalog dump.
type CatalogEntry struct {
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Volume int64  `json:"volume"`
	Icon   string `json:"icon,omitempty"`
}
