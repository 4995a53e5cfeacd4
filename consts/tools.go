package consts

const (
	// Data source tools
	ToolQuote            = "quote"
	ToolCompanyProfile   = "company-profile"
	ToolRatios           = "ratios"
	ToolKeyMetrics       = "key-metrics"
	ToolStockNews        = "stock-news"
	ToolGeneralNews      = "general-news"
	ToolRatings          = "ratings"
	ToolEarningsCalendar = "earnings-calendar"
	ToolEconomicCalendar = "economic-calendar"
	ToolTechnicals       = "technical-indicators"
)

const (
	// Delivery channels
	ChannelWeb   = "web"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

const (
	// Skill identifiers
	SkillBriefing  = "briefing"
	SkillCalendar  = "calendar"
	SkillTechnical = "technical"
)
