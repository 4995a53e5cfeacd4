package assistant

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/arialabs/aria/internal/cache"
	"github.com/arialabs/aria/internal/dataflows"
	"github.com/arialabs/aria/internal/models"
)

// ExecutionEngine fans out the selected tool calls concurrently, joining
// at a hard barrier once every call settled. Failed tools are dropped
// from the output (and logged), never escalated: siblings keep running.
type ExecutionEngine struct {
	gateway     dataflows.Gateway
	cache       *cache.ResultCache
	retry       *dataflows.RetryConfig
	callTimeout time.Duration
}

// NewExecutionEngine wires the engine over a gateway and a result cache.
func NewExecutionEngine(gateway dataflows.Gateway, resultCache *cache.ResultCache) *ExecutionEngine {
	return &ExecutionEngine{
		gateway:     gateway,
		cache:       resultCache,
		retry:       dataflows.DefaultRetryConfig(),
		callTimeout: 10 * time.Second,
	}
}

// Execute invokes every selected tool concurrently and returns only the
// ones that succeeded with non-empty data. No completion order is
// guaranteed between tools.
func (e *ExecutionEngine) Execute(ctx context.Context, descriptors []models.ToolDescriptor, extracted *models.ExtractedRequest) []models.ToolResult {
	if len(descriptors) == 0 {
		return nil
	}

	entity := PrimaryTicker(extracted)
	resultCh := make(chan models.ToolResult, len(descriptors))

	var wg sync.WaitGroup
	for _, desc := range descriptors {
		wg.Add(1)
		go func(desc models.ToolDescriptor) {
			defer wg.Done()
			resultCh <- e.executeOne(ctx, desc.ID, entity)
		}(desc)
	}
	wg.Wait()
	close(resultCh)

	results := make([]models.ToolResult, 0, len(descriptors))
	for res := range resultCh {
		if res.Success && res.Data != nil {
			results = append(results, res)
			continue
		}
		log.Printf("tool %s failed after %d attempt(s) in %dms: %s",
			res.ToolID, res.Attempt, res.LatencyMs, res.Error)
	}
	return results
}

func (e *ExecutionEngine) executeOne(ctx context.Context, toolID, entity string) models.ToolResult {
	if cached, ok := e.cache.Get(toolID, entity); ok {
		cached.Cached = true
		return cached
	}

	// Concurrent misses on the same key share one upstream fetch.
	result, err := e.cache.Fetch(toolID, entity, func() (models.ToolResult, error) {
		return e.fetch(ctx, toolID, entity), nil
	})
	if err != nil {
		return models.ToolResult{ToolID: toolID, Error: err.Error()}
	}
	return result
}

func (e *ExecutionEngine) fetch(ctx context.Context, toolID, entity string) models.ToolResult {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	params := map[string]string{}
	if entity != "" {
		params["symbol"] = entity
	}

	start := time.Now()
	var data any
	attempts, err := dataflows.WithRetry(callCtx, e.retry, func() error {
		var callErr error
		data, callErr = e.gateway.Invoke(callCtx, toolID, params)
		if callErr != nil {
			return callErr
		}
		if data == nil {
			return dataflows.ErrEmptyResponse
		}
		return nil
	})

	result := models.ToolResult{
		ToolID:    toolID,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempt:   attempts,
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Data = data
	e.cache.Set(toolID, entity, result)
	return result
}
