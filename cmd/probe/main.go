package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/arialabs/aria/config"
	"github.com/arialabs/aria/consts"
	"github.com/arialabs/aria/internal/dataflows"
)

// probe exercises the market gateway directly, without the assistant
// pipeline. Usage: probe [TOOL] [SYMBOL]
func main() {
	ctx := context.Background()
	cfg := config.DefaultConfig()

	toolID := consts.ToolQuote
	symbol := "AAPL"
	if len(os.Args) > 1 {
		toolID = os.Args[1]
	}
	if len(os.Args) > 2 {
		symbol = os.Args[2]
	}

	opts := dataflows.GatewayOptions{
		FMPAPIKey:   cfg.FMPAPIKey,
		FMPBaseURL:  cfg.FMPBaseURL,
		NewsPageURL: cfg.NewsPageURL,
	}
	if cfg.LongportAppKey != "" {
		lp, err := dataflows.NewLongportClient(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken)
		if err != nil {
			panic(err)
		}
		opts.Longport = lp
	}

	gateway := dataflows.NewMarketGateway(opts)

	data, err := gateway.Invoke(ctx, toolID, map[string]string{"symbol": symbol})
	if err != nil {
		panic(err)
	}

	payload, _ := json.MarshalIndent(data, "", "  ")
	fmt.Println(string(payload))
}
