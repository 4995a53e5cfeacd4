package models

// ToolResult records the outcome of one tool invocation, cached or live.
type ToolResult struct {
	ToolID    string `json:"tool_id"`
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
	Attempt   int    `json:"attempt"`
	Cached    bool   `json:"cached"`
}

// TokenCost is the token accounting returned by the analysis service.
type TokenCost struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	Total            int `json:"total"`
}

// SynthesisResult is what the synthesis delegate hands back to the pipeline.
type SynthesisResult struct {
	Content   string    `json:"content"`
	Citations []string  `json:"citations,omitempty"`
	Cost      TokenCost `json:"cost"`
	LatencyMs int64     `json:"latency_ms"`
}

// ValidationReport is the advisory coverage check over a synthesized answer.
// It never downgrades a successful response.
type ValidationReport struct {
	Validated       bool     `json:"validated"`
	RequiredMetrics []string `json:"required_metrics"`
	FoundMetrics    []string `json:"found_metrics"`
	MissingMetrics  []string `json:"missing_metrics"`
	CoveragePercent float64  `json:"coverage_percent"`
}

// ProcessResponse is the caller-facing result of one orchestrated request.
// A failed request still carries a user-safe fallback message in Response.
type ProcessResponse struct {
	Success    bool              `json:"success"`
	Response   string            `json:"response"`
	Citations  []string          `json:"citations,omitempty"`
	Cost       *TokenCost        `json:"cost,omitempty"`
	ToolsUsed  []string          `json:"tools_used"`
	Validation *ValidationReport `json:"validation,omitempty"`
	Error      string            `json:"error,omitempty"`
}
