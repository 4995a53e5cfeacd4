package dataflows

import (
	"fmt"
	"time"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// YahooClient serves the quote tool when no FMP key is configured.
type YahooClient struct{}

// NewYahooClient creates a Yahoo Finance quote client.
func NewYahooClient() *YahooClient {
	return &YahooClient{}
}

// GetQuote fetches the current quote snapshot for a symbol.
func (yc *YahooClient) GetQuote(symbol string) (*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	q, err := quote.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	if q == nil {
		return nil, ErrEmptyResponse
	}

	return &MarketData{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(q.RegularMarketPrice),
		Open:      decimal.NewFromFloat(q.RegularMarketOpen),
		High:      decimal.NewFromFloat(q.RegularMarketDayHigh),
		Low:       decimal.NewFromFloat(q.RegularMarketDayLow),
		Change:    decimal.NewFromFloat(q.RegularMarketChange),
		ChangePct: decimal.NewFromFloat(q.RegularMarketChangePercent),
		YearHigh:  decimal.NewFromFloat(q.FiftyTwoWeekHigh),
		YearLow:   decimal.NewFromFloat(q.FiftyTwoWeekLow),
		Volume:    int64(q.RegularMarketVolume),
		Timestamp: time.Now(),
	}, nil
}
