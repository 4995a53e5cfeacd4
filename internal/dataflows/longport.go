package dataflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"
)

// LongportClient serves the quote tool for Hong Kong listings (".HK"
// suffixed symbols), which the other quote sources cover poorly.
type LongportClient struct {
	quoteCtx *quote.QuoteContext
}

// NewLongportClient creates a Longport quote client from API credentials.
func NewLongportClient(appKey, appSecret, accessToken string) (*LongportClient, error) {
	if appKey == "" || appSecret == "" || accessToken == "" {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(appKey, appSecret, accessToken))
	if err != nil {
		return nil, err
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportClient{quoteCtx: quoteContext}, nil
}

// GetQuote derives a quote snapshot from the latest daily candlestick.
func (lpc *LongportClient) GetQuote(ctx context.Context, symbol string) (*MarketData, error) {
	if lpc.quoteCtx == nil {
		return nil, errors.New("quote context is nil")
	}

	sticks, err := lpc.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, 2, quote.AdjustTypeNo)
	if err != nil {
		return nil, fmt.Errorf("failed to get candlesticks for %s: %w", symbol, err)
	}
	if len(sticks) == 0 {
		return nil, ErrEmptyResponse
	}

	last := sticks[len(sticks)-1]
	open, _ := last.Open.Float64()
	high, _ := last.High.Float64()
	low, _ := last.Low.Float64()
	closePx, _ := last.Close.Float64()

	md := &MarketData{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(closePx),
		Open:      decimal.NewFromFloat(open),
		High:      decimal.NewFromFloat(high),
		Low:       decimal.NewFromFloat(low),
		Volume:    last.Volume,
		Timestamp: time.Unix(last.Timestamp, 0),
	}
	if len(sticks) > 1 {
		prev, _ := sticks[len(sticks)-2].Close.Float64()
		if prev != 0 {
			md.Change = decimal.NewFromFloat(closePx - prev)
			md.ChangePct = decimal.NewFromFloat((closePx - prev) / prev * 100)
		}
	}
	return md, nil
}
