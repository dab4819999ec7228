package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"maitred/internal/logging"
)

// Preference is one (key, value) fact persisted for a customer.
type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// ErrPreferenceNotFound is returned when a key has no value for the customer.
var ErrPreferenceNotFound = errors.New("preference not found")

// SetPreference upserts a preference with last-write-wins semantics.
func (s *Store) SetPreference(customerID int64, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logging.StoreDebug("Upserting preference: customer=%d key=%s", customerID, key)

	_, err := s.db.Exec(
		`INSERT INTO customer_preferences (customer_id, preference_key, preference_value, created_at, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		 ON CONFLICT(customer_id, preference_key)
		 DO UPDATE SET preference_value = excluded.preference_value, updated_at = CURRENT_TIMESTAMP`,
		customerID, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}
	return nil
}

// GetPreference fetches one preference value.
func (s *Store) GetPreference(customerID int64, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(
		"SELECT preference_value FROM customer_preferences WHERE customer_id = ? AND preference_key = ?",
		customerID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPreferenceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("preference get failed: %w", err)
	}
	return value, nil
}

// GetAllPreferences returns every preference for a customer ordered by key.
func (s *Store) GetAllPreferences(customerID int64) ([]Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT preference_key, preference_value, updated_at
		 FROM customer_preferences WHERE customer_id = ? ORDER BY preference_key`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("preferences query failed: %w", err)
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.Key, &p.Value, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("preference scan failed: %w", err)
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("preference rows failed: %w", err)
	}
	return prefs, nil
}
