package tools

import (
	"sort"

	"github.com/arialabs/aria/consts"
	"github.com/arialabs/aria/internal/models"
)

// Catalog is the read-only registry of invocable data source tools and
// the skill keyword table. Built once at startup.
type Catalog struct {
	tools  map[string]models.ToolDescriptor
	skills []models.Skill
}

// DefaultCatalog returns the production catalog with every tool enabled.
func DefaultCatalog() *Catalog {
	descriptors := []models.ToolDescriptor{
		{ID: consts.ToolQuote, Name: "Real-time quote", Enabled: true},
		{ID: consts.ToolCompanyProfile, Name: "Company profile", Enabled: true},
		{ID: consts.ToolRatios, Name: "Financial ratios (TTM)", Enabled: true},
		{ID: consts.ToolKeyMetrics, Name: "Key metrics (TTM)", Enabled: true},
		{ID: consts.ToolStockNews, Name: "Company news", Enabled: true},
		{ID: consts.ToolGeneralNews, Name: "Market news", Enabled: true},
		{ID: consts.ToolRatings, Name: "Analyst ratings", Enabled: true},
		{ID: consts.ToolEarningsCalendar, Name: "Earnings calendar", Enabled: true},
		{ID: consts.ToolEconomicCalendar, Name: "Economic calendar", Enabled: true},
		{ID: consts.ToolTechnicals, Name: "Technical indicators", Enabled: true},
	}

	skills := []models.Skill{
		{
			Name:     consts.SkillBriefing,
			Keywords: []string{"briefing", "brief du marché", "market briefing", "résumé du marché", "morning brief"},
			ToolIDs:  []string{consts.ToolGeneralNews, consts.ToolEconomicCalendar},
		},
		{
			Name:     consts.SkillCalendar,
			Keywords: []string{"calendrier", "calendar", "agenda économique", "earnings this week", "résultats de la semaine"},
			ToolIDs:  []string{consts.ToolEarningsCalendar, consts.ToolEconomicCalendar},
		},
		{
			Name:     consts.SkillTechnical,
			Keywords: []string{"rsi", "macd", "analyse technique", "technical analysis", "moyenne mobile", "moving average", "indicateur technique"},
			ToolIDs:  []string{consts.ToolTechnicals, consts.ToolQuote},
		},
	}

	return NewCatalog(descriptors, skills)
}

// NewCatalog builds a catalog from explicit descriptors and skills.
func NewCatalog(descriptors []models.ToolDescriptor, skills []models.Skill) *Catalog {
	m := make(map[string]models.ToolDescriptor, len(descriptors))
	for _, d := range descriptors {
		m[d.ID] = d
	}
	return &Catalog{tools: m, skills: skills}
}

// Get looks up one descriptor.
func (c *Catalog) Get(id string) (models.ToolDescriptor, bool) {
	d, ok := c.tools[id]
	return d, ok
}

// Resolve maps tool ids to enabled descriptors, preserving order and
// dropping duplicates and unknown or disabled ids silently.
func (c *Catalog) Resolve(ids ...string) []models.ToolDescriptor {
	seen := make(map[string]bool, len(ids))
	var out []models.ToolDescriptor
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if d, ok := c.tools[id]; ok && d.Enabled {
			out = append(out, d)
		}
	}
	return out
}

// All returns every descriptor sorted by id.
func (c *Catalog) All() []models.ToolDescriptor {
	out := make([]models.ToolDescriptor, 0, len(c.tools))
	for _, d := range c.tools {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Skills returns the skill keyword table.
func (c *Catalog) Skills() []models.Skill {
	return c.skills
}

// EssentialBundle is the fixed tool set for a comprehensive analysis.
func EssentialBundle() []string {
	return []string{
		consts.ToolQuote,
		consts.ToolCompanyProfile,
		consts.ToolRatios,
		consts.ToolKeyMetrics,
		consts.ToolStockNews,
		consts.ToolRatings,
		consts.ToolEarningsCalendar,
	}
}

// MinimalBundle is the fixed tool set for a plain ticker mention.
func MinimalBundle() []string {
	return []string{
		consts.ToolQuote,
		consts.ToolStockNews,
		consts.ToolKeyMetrics,
	}
}
