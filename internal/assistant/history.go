package assistant

import (
	"sync"
	"time"

	"github.com/arialabs/aria/internal/models"
)

// HistoryStore keeps the rolling conversation state of every session.
// State is keyed by session id so concurrent independent conversations
// never share memory.
type HistoryStore struct {
	mu       sync.Mutex
	sessions map[string]*models.ConversationState
}

// NewHistoryStore creates an empty store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		sessions: make(map[string]*models.ConversationState),
	}
}

// State returns a copy of a session's state; the zero state when unknown.
func (h *HistoryStore) State(sessionID string) models.ConversationState {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.sessions[sessionID]
	if !ok {
		return models.ConversationState{}
	}
	copied := models.ConversationState{
		History:     append([]models.ConversationTurn(nil), state.History...),
		LastTickers: append([]string(nil), state.LastTickers...),
		LastIntent:  state.LastIntent,
	}
	return copied
}

// AppendExchange records one completed user/assistant exchange, trims the
// history to its cap (FIFO), and updates the last-known entities. An
// empty ticker extraction does not erase prior ticker memory.
func (h *HistoryStore) AppendExchange(sessionID, userMessage, assistantMessage string, tickers []string, intent string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.sessions[sessionID]
	if !ok {
		state = &models.ConversationState{}
		h.sessions[sessionID] = state
	}

	now := time.Now()
	state.History = append(state.History,
		models.ConversationTurn{Role: models.RoleUser, Content: userMessage, Timestamp: now},
		models.ConversationTurn{Role: models.RoleAssistant, Content: assistantMessage, Timestamp: now},
	)
	if excess := len(state.History) - models.MaxHistoryTurns; excess > 0 {
		state.History = state.History[excess:]
	}

	if len(tickers) > 0 {
		state.LastTickers = append([]string(nil), tickers...)
	}
	if intent != "" {
		state.LastIntent = intent
	}
}

// Restore seeds a session's state, used when rehydrating from storage.
func (h *HistoryStore) Restore(sessionID string, state models.ConversationState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if excess := len(state.History) - models.MaxHistoryTurns; excess > 0 {
		state.History = state.History[excess:]
	}
	h.sessions[sessionID] = &state
}

// Reset drops a session's state.
func (h *HistoryStore) Reset(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, sessionID)
}
