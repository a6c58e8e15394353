package model

import "time"

// PriceRecord is a normalized mandi price quote. Missing string fields
// default to "N/A"; unparseable prices default to zero.
type PriceRecord struct {
	Commodity  string  `json:"commodity"`
	Market     string  `json:"market"`
	State      string  `json:"state"`
	District   string  `json:"district,omitempty"`
	Date       string  `json:"date"`
	ModalPrice float64 `json:"modalPrice"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
	Variety    string  `json:"variety,omitempty"`
	Grade      string  `json:"grade,omitempty"`
	Source     string  `json:"source"`
}

// PricePage is the paginated market response. The records travel under the
// "articles" key. The frontend's list components share one response shape
// across news and market.
type PricePage struct {
	Records    []PriceRecord `json:"articles"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

// StoredPrice is the persisted form of a fetched price record, written
// opportunistically whenever upstream data arrives. There is no read path
// and no eviction.
type StoredPrice struct {
	Commodity  string
	Market     string
	State      string
	District   string
	Date       string
	ModalPrice float64
	MinPrice   float64
	MaxPrice   float64
	Variety    string
	Grade      string
	Source     string
	FetchedAt  time.Time
}
