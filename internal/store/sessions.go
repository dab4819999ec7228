package store

import (
	"fmt"

	"maitred/internal/logging"
)

// SessionTurn is one completed turn persisted from session history.
type SessionTurn struct {
	TurnNumber int
	UserInput  string
	Intent     string
	Response   string
}

// StoreSessionTurn records a completed conversation turn.
// Uses INSERT OR IGNORE so re-syncing the same turn is a no-op.
func (s *Store) StoreSessionTurn(sessionID string, turnNumber int, userInput, intent, response string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logging.StoreDebug("Storing session turn: session=%s turn=%d", sessionID, turnNumber)

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO session_history (session_id, turn_number, user_input, intent, response)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, turnNumber, userInput, intent, response,
	)
	if err != nil {
		return fmt.Errorf("failed to store session turn: %w", err)
	}
	return nil
}

// GetSessionHistory retrieves persisted turns for a session, oldest first.
func (s *Store) GetSessionHistory(sessionID string, limit int) ([]SessionTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT turn_number, user_input, intent, response
		 FROM session_history WHERE session_id = ?
		 ORDER BY turn_number ASC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("session history query failed: %w", err)
	}
	defer rows.Close()

	var turns []SessionTurn
	for rows.Next() {
		var t SessionTurn
		if err := rows.Scan(&t.TurnNumber, &t.UserInput, &t.Intent, &t.Response); err != nil {
			return nil, fmt.Errorf("session turn scan failed: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session turn rows failed: %w", err)
	}
	return turns, nil
}
