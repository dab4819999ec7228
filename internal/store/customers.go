package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"maitred/internal/logging"
	"maitred/internal/types"
)

// Customer lookup errors. Ambiguity is distinct from absence so callers can
// decline to guess an identity.
var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrAmbiguousCustomer = errors.New("customer query matches multiple records")
)

// LookupCustomer finds a customer by name or phone. Exact name match wins;
// otherwise a LIKE scan runs, and more than one hit is an ambiguity error,
// never a silent pick.
func (s *Store) LookupCustomer(query string) (*types.Customer, error) {
	timer := logging.StartTimer(logging.CategoryStore, "LookupCustomer")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrCustomerNotFound
	}

	logging.StoreDebug("Looking up customer: query=%q", query)

	var c types.Customer
	err := s.db.QueryRow(
		"SELECT id, name, phone, email FROM customers WHERE name = ? COLLATE NOCASE OR phone = ? LIMIT 1",
		query, query,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Email)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT id, name, phone, email FROM customers WHERE name LIKE ? LIMIT 2",
		"%"+query+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	defer rows.Close()

	var matches []types.Customer
	for rows.Next() {
		var m types.Customer
		if err := rows.Scan(&m.ID, &m.Name, &m.Phone, &m.Email); err != nil {
			return nil, fmt.Errorf("customer scan failed: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("customer rows failed: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, ErrCustomerNotFound
	case 1:
		return &matches[0], nil
	default:
		logging.StoreDebug("Customer query %q ambiguous", query)
		return nil, ErrAmbiguousCustomer
	}
}

// GetCustomer fetches a customer by id.
func (s *Store) GetCustomer(id int64) (*types.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c types.Customer
	err := s.db.QueryRow("SELECT id, name, phone, email FROM customers WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customer get failed: %w", err)
	}
	return &c, nil
}

// AddCustomer inserts a customer record and returns its id.
func (s *Store) AddCustomer(name, phone, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("INSERT INTO customers (name, phone, email) VALUES (?, ?, ?)", name, phone, email)
	if err != nil {
		return 0, fmt.Errorf("failed to add customer: %w", err)
	}
	return res.LastInsertId()
}
