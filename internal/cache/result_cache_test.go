package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arialabs/aria/consts"
	"github.com/arialabs/aria/internal/models"
)

func TestKeyDefaultsEntity(t *testing.T) {
	if got := Key(consts.ToolGeneralNews, ""); got != "general-news:_global" {
		t.Fatalf("expected general-news:_global, got %s", got)
	}
	if got := Key(consts.ToolQuote, "AAPL"); got != "quote:AAPL" {
		t.Fatalf("expected quote:AAPL, got %s", got)
	}
}

func TestTTLForCategories(t *testing.T) {
	cases := []struct {
		toolID string
		want   time.Duration
	}{
		{consts.ToolQuote, TTLQuote},
		{consts.ToolStockNews, TTLNews},
		{consts.ToolGeneralNews, TTLNews},
		{consts.ToolEarningsCalendar, TTLCalendar},
		{consts.ToolEconomicCalendar, TTLCalendar},
		{consts.ToolRatios, TTLDefault},
		{consts.ToolCompanyProfile, TTLDefault},
	}
	for _, tc := range cases {
		if got := TTLFor(tc.toolID); got != tc.want {
			t.Fatalf("TTLFor(%s) = %v, want %v", tc.toolID, got, tc.want)
		}
	}
}

func TestGetMissAndHit(t *testing.T) {
	c := NewResultCache(10)

	if _, ok := c.Get(consts.ToolQuote, "AAPL"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	c.Set(consts.ToolQuote, "AAPL", models.ToolResult{ToolID: consts.ToolQuote, Success: true})

	res, ok := c.Get(consts.ToolQuote, "AAPL")
	if !ok {
		t.Fatalf("expected hit after Set")
	}
	if res.ToolID != consts.ToolQuote || !res.Success {
		t.Fatalf("unexpected cached result: %+v", res)
	}

	// Same tool for a different entity is a distinct key.
	if _, ok := c.Get(consts.ToolQuote, "MSFT"); ok {
		t.Fatalf("expected miss for different entity")
	}
}

func TestExpiredEntryIsDropped(t *testing.T) {
	c := NewResultCache(10)
	c.Set(consts.ToolQuote, "AAPL", models.ToolResult{ToolID: consts.ToolQuote, Success: true})

	// Age the entry past its TTL.
	c.mu.Lock()
	c.entries[Key(consts.ToolQuote, "AAPL")].storedAt = time.Now().Add(-TTLQuote - time.Second)
	c.mu.Unlock()

	if _, ok := c.Get(consts.ToolQuote, "AAPL"); ok {
		t.Fatalf("expected stale entry to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expected stale entry removed, have %d entries", c.Len())
	}
}

func TestEvictionIsInsertionOrder(t *testing.T) {
	c := NewResultCache(3)

	for _, sym := range []string{"AAPL", "MSFT", "GOOG"} {
		c.Set(consts.ToolQuote, sym, models.ToolResult{ToolID: consts.ToolQuote})
	}

	// Touching AAPL via Get must not refresh its position.
	if _, ok := c.Get(consts.ToolQuote, "AAPL"); !ok {
		t.Fatalf("expected AAPL to be cached")
	}

	c.Set(consts.ToolQuote, "TSLA", models.ToolResult{ToolID: consts.ToolQuote})

	if _, ok := c.Get(consts.ToolQuote, "AAPL"); ok {
		t.Fatalf("expected oldest-inserted AAPL to be evicted")
	}
	for _, sym := range []string{"MSFT", "GOOG", "TSLA"} {
		if _, ok := c.Get(consts.ToolQuote, sym); !ok {
			t.Fatalf("expected %s to survive eviction", sym)
		}
	}
}

func TestSetSameKeyReinserts(t *testing.T) {
	c := NewResultCache(2)

	c.Set(consts.ToolQuote, "AAPL", models.ToolResult{Attempt: 1})
	c.Set(consts.ToolQuote, "MSFT", models.ToolResult{Attempt: 1})
	// Overwriting AAPL moves it to the back of the eviction order.
	c.Set(consts.ToolQuote, "AAPL", models.ToolResult{Attempt: 2})

	c.Set(consts.ToolQuote, "GOOG", models.ToolResult{Attempt: 1})

	if _, ok := c.Get(consts.ToolQuote, "MSFT"); ok {
		t.Fatalf("expected MSFT evicted after AAPL reinsert")
	}
	res, ok := c.Get(consts.ToolQuote, "AAPL")
	if !ok || res.Attempt != 2 {
		t.Fatalf("expected refreshed AAPL entry, got %+v ok=%v", res, ok)
	}
}

func TestFetchDeduplicatesConcurrentMisses(t *testing.T) {
	c := NewResultCache(10)

	var calls int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, err := c.Fetch(consts.ToolQuote, "AAPL", func() (models.ToolResult, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(20 * time.Millisecond)
				return models.ToolResult{ToolID: consts.ToolQuote, Success: true}, nil
			})
			if err != nil {
				t.Errorf("Fetch: %v", err)
				return
			}
			if !res.Success {
				t.Errorf("unexpected result: %+v", res)
			}
		}()
	}

	close(start)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected a single upstream call, got %d", n)
	}
}

func TestFetchPropagatesError(t *testing.T) {
	c := NewResultCache(10)

	_, err := c.Fetch(consts.ToolQuote, "AAPL", func() (models.ToolResult, error) {
		return models.ToolResult{}, fmt.Errorf("upstream down")
	})
	if err == nil {
		t.Fatalf("expected error from Fetch")
	}
}

func TestClear(t *testing.T) {
	c := NewResultCache(10)
	c.Set(consts.ToolQuote, "AAPL", models.ToolResult{})
	c.Set(consts.ToolStockNews, "AAPL", models.ToolResult{})

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after Clear, have %d", c.Len())
	}
}
