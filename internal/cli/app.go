package cli

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/arialabs/aria/config"
	"github.com/arialabs/aria/internal/assistant"
	"github.com/arialabs/aria/internal/cache"
	"github.com/arialabs/aria/internal/dataflows"
	"github.com/arialabs/aria/internal/storage"
)

// App bundles the orchestrator with its optional collaborators for the
// lifetime of one CLI invocation.
type App struct {
	Orchestrator *assistant.Orchestrator
	Store        *storage.Store
	Config       *config.Config
}

// BuildApp wires the production orchestrator from configuration.
func BuildApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	var longport *dataflows.LongportClient
	if cfg.LongportAppKey != "" {
		lp, err := dataflows.NewLongportClient(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken)
		if err != nil {
			log.Printf("longport client unavailable, .HK quotes will use the default source: %v", err)
		} else {
			longport = lp
		}
	}

	gateway := dataflows.NewMarketGateway(dataflows.GatewayOptions{
		FMPAPIKey:   cfg.FMPAPIKey,
		FMPBaseURL:  cfg.FMPBaseURL,
		NewsPageURL: cfg.NewsPageURL,
		Longport:    longport,
	})

	engine := assistant.NewExecutionEngine(gateway, cache.NewResultCache(cfg.CacheCapacity))

	chatModel, err := assistant.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var store *storage.Store
	var recorder assistant.TurnRecorder
	if cfg.PersistHistory {
		store, err = storage.NewStore(filepath.Join(cfg.DataDir, "aria.db"))
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		recorder = store
	}

	orch := assistant.NewOrchestrator(assistant.Options{
		Engine:   engine,
		Delegate: assistant.NewSynthesisDelegate(chatModel),
		Recorder: recorder,
	})

	if store != nil {
		rehydrate(orch, store)
	}

	return &App{Orchestrator: orch, Store: store, Config: cfg}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.Store != nil {
		_ = a.Store.Close()
	}
}

func rehydrate(orch *assistant.Orchestrator, store *storage.Store) {
	sessions, err := store.Sessions()
	if err != nil {
		log.Printf("list persisted sessions: %v", err)
		return
	}
	for _, id := range sessions {
		state, err := store.SessionState(id)
		if err != nil {
			log.Printf("rehydrate session %s: %v", id, err)
			continue
		}
		orch.History().Restore(id, state)
	}
}
