package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one append-only entry in a session's rolling history.
type ConversationTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationState is the per-session rolling memory used for follow-up
// resolution. History is capped at MaxHistoryTurns entries (FIFO).
type ConversationState struct {
	History     []ConversationTurn `json:"history"`
	LastTickers []string           `json:"last_tickers,omitempty"`
	LastIntent  string             `json:"last_intent,omitempty"`
}

// MaxHistoryTurns bounds a session history to 10 exchanges.
const MaxHistoryTurns = 20
