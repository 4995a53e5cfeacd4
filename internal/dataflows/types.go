package dataflows

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketData represents a normalized quote snapshot from any quote source.
type MarketData struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"dayHigh"`
	Low       decimal.Decimal `json:"dayLow"`
	Change    decimal.Decimal `json:"change"`
	ChangePct decimal.Decimal `json:"changesPercentage"`
	YearHigh  decimal.Decimal `json:"yearHigh"`
	YearLow   decimal.Decimal `json:"yearLow"`
	Volume    int64           `json:"volume"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewsArticle is a normalized headline from any news source.
type NewsArticle struct {
	Title       string    `json:"title"`
	Content     string    `json:"text,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"site"`
	PublishedAt time.Time `json:"publishedDate"`
	Symbol      string    `json:"symbol,omitempty"`
}
