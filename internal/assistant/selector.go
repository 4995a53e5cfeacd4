package assistant

import (
	"github.com/arialabs/aria/consts"
	"github.com/arialabs/aria/internal/models"
	"github.com/arialabs/aria/internal/tools"
)

// SelectTools maps an extracted request and its conversational context to
// the ordered set of tools to invoke. Pure and deterministic. Priority
// rules are mutually exclusive for the base set; news and calendar
// intents are additive on top of a ticker bundle. Unknown or disabled
// ids are dropped silently by the catalog.
func SelectTools(extracted *models.ExtractedRequest, convCtx *models.ConversationalContext, reqCtx *models.RequestContext, catalog *tools.Catalog) []models.ToolDescriptor {
	// Politeness with no data need short-circuits to nothing.
	if extracted.IsPoliteness && !extracted.NeedsData && !extracted.HasTicker() {
		return nil
	}

	// Matched skills take top priority and fully determine the set.
	if convCtx != nil && len(convCtx.MatchedSkills) > 0 {
		var ids []string
		for _, skill := range convCtx.MatchedSkills {
			ids = append(ids, skill.ToolIDs...)
		}
		return catalog.Resolve(ids...)
	}

	var ids []string
	comprehensive := reqCtx != nil && reqCtx.Comprehensive

	switch {
	case extracted.HasTicker() && (extracted.IsAnalysis || comprehensive):
		ids = append(ids, tools.EssentialBundle()...)
	case extracted.HasTicker():
		ids = append(ids, tools.MinimalBundle()...)
	}

	if extracted.IsNews {
		if extracted.HasTicker() {
			ids = append(ids, consts.ToolStockNews)
		} else {
			ids = append(ids, consts.ToolGeneralNews)
		}
	}

	if extracted.IsCalendar {
		ids = append(ids, consts.ToolEarningsCalendar, consts.ToolEconomicCalendar)
	}

	return catalog.Resolve(ids...)
}
