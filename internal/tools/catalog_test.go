package tools

import (
	"testing"

	"github.com/arialabs/aria/consts"
	"github.com/arialabs/aria/internal/models"
)

func TestDefaultCatalogHasAllTools(t *testing.T) {
	c := DefaultCatalog()

	ids := []string{
		consts.ToolQuote,
		consts.ToolCompanyProfile,
		consts.ToolRatios,
		consts.ToolKeyMetrics,
		consts.ToolStockNews,
		consts.ToolGeneralNews,
		consts.ToolRatings,
		consts.ToolEarningsCalendar,
		consts.ToolEconomicCalendar,
		consts.ToolTechnicals,
	}
	for _, id := range ids {
		d, ok := c.Get(id)
		if !ok {
			t.Fatalf("missing tool %s", id)
		}
		if !d.Enabled {
			t.Fatalf("tool %s disabled by default", id)
		}
	}

	if len(c.All()) != len(ids) {
		t.Fatalf("expected %d tools, got %d", len(ids), len(c.All()))
	}
	if len(c.Skills()) != 3 {
		t.Fatalf("expected 3 skills, got %d", len(c.Skills()))
	}
}

func TestResolveDropsDuplicatesAndUnknown(t *testing.T) {
	c := DefaultCatalog()

	out := c.Resolve(consts.ToolQuote, consts.ToolQuote, "no-such-tool", consts.ToolRatings)
	if len(out) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(out))
	}
	if out[0].ID != consts.ToolQuote || out[1].ID != consts.ToolRatings {
		t.Fatalf("unexpected resolve order: %v", out)
	}
}

func TestResolveSkipsDisabled(t *testing.T) {
	c := NewCatalog([]models.ToolDescriptor{
		{ID: consts.ToolQuote, Name: "Real-time quote", Enabled: true},
		{ID: consts.ToolStockNews, Name: "Company news", Enabled: false},
	}, nil)

	out := c.Resolve(consts.ToolQuote, consts.ToolStockNews)
	if len(out) != 1 || out[0].ID != consts.ToolQuote {
		t.Fatalf("expected disabled tool filtered out, got %v", out)
	}
}

func TestBundlesAreStable(t *testing.T) {
	essential := EssentialBundle()
	if len(essential) != 7 {
		t.Fatalf("expected 7 essential tools, got %d", len(essential))
	}
	if essential[0] != consts.ToolQuote {
		t.Fatalf("expected quote first in essential bundle, got %s", essential[0])
	}

	minimal := MinimalBundle()
	if len(minimal) != 3 {
		t.Fatalf("expected 3 minimal tools, got %d", len(minimal))
	}
	for _, id := range minimal {
		found := false
		for _, e := range essential {
			if e == id {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("minimal tool %s missing from essential bundle", id)
		}
	}
}
