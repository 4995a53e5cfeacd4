package dataflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/arialabs/aria/consts"
)

var (
	// ErrEmptyResponse marks an upstream reply that decoded to an empty
	// array; callers treat it as a failed invocation.
	ErrEmptyResponse = errors.New("upstream returned no data")
	// ErrUnknownTool marks a tool id absent from the endpoint table.
	ErrUnknownTool = errors.New("unknown tool id")
)

// FMPClient talks to the Financial Modeling Prep REST API. It is the
// primary transport behind every catalog tool.
type FMPClient struct {
	client *resty.Client
	apiKey string
}

// NewFMPClient creates an FMP client. baseURL is overridable for tests.
func NewFMPClient(apiKey, baseURL string) *FMPClient {
	if baseURL == "" {
		baseURL = "https://financialmodelingprep.com/api"
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(10 * time.Second)
	client.SetHeader("User-Agent", "Aria/1.0")

	return &FMPClient{
		client: client,
		apiKey: apiKey,
	}
}

// endpoint describes how one tool id maps onto the FMP API surface.
type endpoint struct {
	path        string // may contain {symbol}
	needsSymbol bool
	query       map[string]string
}

var endpoints = map[string]endpoint{
	consts.ToolQuote:            {path: "/v3/quote/{symbol}", needsSymbol: true},
	consts.ToolCompanyProfile:   {path: "/v3/profile/{symbol}", needsSymbol: true},
	consts.ToolRatios:           {path: "/v3/ratios-ttm/{symbol}", needsSymbol: true},
	consts.ToolKeyMetrics:       {path: "/v3/key-metrics-ttm/{symbol}", needsSymbol: true},
	consts.ToolStockNews:        {path: "/v3/stock_news", query: map[string]string{"limit": "10"}},
	consts.ToolGeneralNews:      {path: "/v4/general_news", query: map[string]string{"page": "0"}},
	consts.ToolRatings:          {path: "/v3/rating/{symbol}", needsSymbol: true},
	consts.ToolEarningsCalendar: {path: "/v3/earning_calendar"},
	consts.ToolEconomicCalendar: {path: "/v3/economic_calendar"},
	consts.ToolTechnicals: {path: "/v3/technical_indicator/1day/{symbol}", needsSymbol: true,
		query: map[string]string{"type": "rsi", "period": "14"}},
}

// Invoke calls the endpoint registered for toolID and returns the decoded
// JSON body. A non-2xx status or an empty array body is a failure.
func (fc *FMPClient) Invoke(ctx context.Context, toolID string, params map[string]string) (any, error) {
	ep, ok := endpoints[toolID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, toolID)
	}

	path := ep.path
	if ep.needsSymbol {
		symbol := NormalizeSymbol(params["symbol"])
		if err := ValidateSymbol(symbol); err != nil {
			return nil, err
		}
		path = strings.Replace(path, "{symbol}", symbol, 1)
	}

	req := fc.client.R().SetContext(ctx)
	for k, v := range ep.query {
		req.SetQueryParam(k, v)
	}
	if toolID == consts.ToolStockNews && params["symbol"] != "" {
		req.SetQueryParam("tickers", NormalizeSymbol(params["symbol"]))
	}
	req.SetQueryParam("apikey", fc.apiKey)

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", toolID, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("API error %d for %s: %s", resp.StatusCode(), toolID, resp.String())
	}

	return decodeBody(resp.Body(), toolID)
}

func decodeBody(body []byte, toolID string) (any, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", toolID, err)
	}
	if decoded == nil {
		return nil, ErrEmptyResponse
	}
	if arr, ok := decoded.([]any); ok && len(arr) == 0 {
		return nil, ErrEmptyResponse
	}
	return decoded, nil
}
