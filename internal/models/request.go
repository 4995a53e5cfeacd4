package models

// ToolDescriptor is an immutable catalog entry for one invocable data source
// operation. The catalog is loaded once at startup and read-only afterwards.
type ToolDescriptor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Skill associates a conversational keyword family with the tools that
// serve it. Matched skills take priority over every other selection rule.
type Skill struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	ToolIDs  []string `json:"tool_ids"`
}

// ExtractedRequest is the structured view of one user message. It is built
// fresh per request and never mutated afterwards.
type ExtractedRequest struct {
	Tickers      []string `json:"tickers"` // deduplicated, sorted
	NeedsData    bool     `json:"needs_data"`
	IsAnalysis   bool     `json:"is_analysis"`
	IsNews       bool     `json:"is_news"`
	IsCalendar   bool     `json:"is_calendar"`
	IsPoliteness bool     `json:"is_politeness"`
}

// HasTicker reports whether at least one ticker candidate was extracted.
func (e *ExtractedRequest) HasTicker() bool {
	return len(e.Tickers) > 0
}

// RequestContext carries caller-supplied routing information for one request.
type RequestContext struct {
	SessionID     string `json:"session_id"`
	Channel       string `json:"channel"`
	Comprehensive bool   `json:"comprehensive"`
}

// ConversationalContext is the outcome of classifying a message against the
// rolling conversation state. Exactly one classification rule produces it.
type ConversationalContext struct {
	Rule              string   `json:"rule"`
	CanAnswerDirectly bool     `json:"can_answer_directly"`
	DirectReply       string   `json:"direct_reply,omitempty"`
	MatchedSkills     []Skill  `json:"matched_skills,omitempty"`
	ShouldIntroduce   bool     `json:"should_introduce"`
	HasCoreference    bool     `json:"has_coreference"`
	HasContextualRef  bool     `json:"has_contextual_ref"`
	PreviousTickers   []string `json:"previous_tickers,omitempty"`
	PreviousIntent    string   `json:"previous_intent,omitempty"`
}
