package dataflows

import (
	"context"
	"strings"

	"github.com/arialabs/aria/consts"
)

// Gateway is the uniform entry point to every external data source. The
// execution engine only ever sees this interface.
type Gateway interface {
	Invoke(ctx context.Context, toolID string, params map[string]string) (any, error)
}

// GatewayOptions configures the default gateway wiring.
type GatewayOptions struct {
	FMPAPIKey   string
	FMPBaseURL  string
	NewsPageURL string
	// Longport is optional; when set it serves quotes for .HK listings.
	Longport *LongportClient
}

// MarketGateway routes tool ids to their transport. FMP is the primary
// source; Yahoo, Longport and the headline scraper cover the gaps.
type MarketGateway struct {
	fmp      *FMPClient
	yahoo    *YahooClient
	scraper  *HeadlineScraper
	longport *LongportClient
	hasKey   bool
}

// NewMarketGateway builds the production gateway from options.
func NewMarketGateway(opts GatewayOptions) *MarketGateway {
	return &MarketGateway{
		fmp:      NewFMPClient(opts.FMPAPIKey, opts.FMPBaseURL),
		yahoo:    NewYahooClient(),
		scraper:  NewHeadlineScraper(opts.NewsPageURL),
		longport: opts.Longport,
		hasKey:   opts.FMPAPIKey != "",
	}
}

// Invoke dispatches one tool call to the appropriate source.
func (g *MarketGateway) Invoke(ctx context.Context, toolID string, params map[string]string) (any, error) {
	symbol := params["symbol"]

	switch {
	case toolID == consts.ToolQuote && strings.HasSuffix(NormalizeSymbol(symbol), ".HK") && g.longport != nil:
		return g.longport.GetQuote(ctx, NormalizeSymbol(symbol))
	case toolID == consts.ToolQuote && !g.hasKey:
		return g.yahoo.GetQuote(symbol)
	case toolID == consts.ToolGeneralNews && !g.hasKey:
		return g.scraper.GetHeadlines(10)
	default:
		return g.fmp.Invoke(ctx, toolID, params)
	}
}
