package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/arialabs/aria/internal/models"
)

// Store persists conversation turns so a session's rolling window
// survives restarts. It implements assistant.TurnRecorder.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the turns database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.initTable(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT,
		tickers_json TEXT,
		intent TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, id);`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create turns table: %w", err)
	}
	return nil
}

// SaveTurn appends one turn for a session.
func (s *Store) SaveTurn(sessionID string, turn models.ConversationTurn, tickers []string, intent string) error {
	var tickersJSON string
	if len(tickers) > 0 {
		data, err := json.Marshal(tickers)
		if err != nil {
			log.Printf("marshal tickers for persistence: %v", err)
		} else {
			tickersJSON = string(data)
		}
	}

	_, err := s.db.Exec(`
		INSERT INTO turns (session_id, role, content, tickers_json, intent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, turn.Role, turn.Content, tickersJSON, intent, turn.Timestamp)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

// SessionState rebuilds a session's rolling window from the most recent
// persisted turns, newest-last, capped at the history bound.
func (s *Store) SessionState(sessionID string) (models.ConversationState, error) {
	rows, err := s.db.Query(`
		SELECT role, content, tickers_json, intent, created_at
		FROM turns
		WHERE session_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, sessionID, models.MaxHistoryTurns)
	if err != nil {
		return models.ConversationState{}, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var state models.ConversationState
	for rows.Next() {
		var turn models.ConversationTurn
		var tickersJSON, intent sql.NullString
		if err := rows.Scan(&turn.Role, &turn.Content, &tickersJSON, &intent, &turn.Timestamp); err != nil {
			return models.ConversationState{}, fmt.Errorf("scan turn: %w", err)
		}
		// Rows come newest-first; prepend to restore chronology.
		state.History = append([]models.ConversationTurn{turn}, state.History...)

		if len(state.LastTickers) == 0 && tickersJSON.Valid && tickersJSON.String != "" {
			var tickers []string
			if err := json.Unmarshal([]byte(tickersJSON.String), &tickers); err == nil && len(tickers) > 0 {
				state.LastTickers = tickers
			}
		}
		if state.LastIntent == "" && intent.Valid && intent.String != "" {
			state.LastIntent = intent.String
		}
	}
	if err := rows.Err(); err != nil {
		return models.ConversationState{}, fmt.Errorf("iterate turns: %w", err)
	}
	return state, nil
}

// Sessions lists the known session ids.
func (s *Store) Sessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT session_id FROM turns ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
