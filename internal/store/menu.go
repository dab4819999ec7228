package store

import (
	"errors"
	"fmt"
	"strings"

	"maitred/internal/logging"
)

// ErrMenuItemNotFound is returned when no menu item matches a name.
var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuItem is one row of the menu_items table.
type MenuItem struct {
	ID          int64
	Name        string
	Category    string
	Price       float64
	Description string
	IsAvailable bool
}

// SearchMenu returns menu items whose name or description matches the query.
// An empty query lists everything up to the limit.
func (s *Store) SearchMenu(query string, availableOnly bool, limit int) ([]MenuItem, error) {
	timer := logging.StartTimer(logging.CategoryStore, "SearchMenu")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	logging.StoreDebug("Searching menu: query=%q availableOnly=%v limit=%d", query, availableOnly, limit)

	var (
		where []string
		args  []interface{}
	)
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + q + "%"
		where = append(where, "(name LIKE ? OR description LIKE ? OR category LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if availableOnly {
		where = append(where, "is_available = 1")
	}

	sql := "SELECT id, name, category, price, description, is_available FROM menu_items"
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY category, name LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(sql, args...)
	if err != nil {
		return nil, fmt.Errorf("menu search failed: %w", err)
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var item MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.Description, &item.IsAvailable); err != nil {
			return nil, fmt.Errorf("menu scan failed: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("menu rows failed: %w", err)
	}

	logging.StoreDebug("Menu search found %d items", len(items))
	return items, nil
}

// FindMenuItem matches a single menu item by name, exact first then LIKE.
func (s *Store) FindMenuItem(name string) (*MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("menu item name required")
	}

	row := s.db.QueryRow(
		"SELECT id, name, category, price, description, is_available FROM menu_items WHERE name = ? COLLATE NOCASE LIMIT 1",
		name,
	)
	item, err := scanMenuItem(row)
	if err == nil {
		return item, nil
	}

	row = s.db.QueryRow(
		"SELECT id, name, category, price, description, is_available FROM menu_items WHERE name LIKE ? ORDER BY name LIMIT 1",
		"%"+name+"%",
	)
	item, err = scanMenuItem(row)
	if err != nil {
		return nil, fmt.Errorf("menu item %q: %w", name, ErrMenuItemNotFound)
	}
	return item, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMenuItem(row rowScanner) (*MenuItem, error) {
	var item MenuItem
	if err := row.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.Description, &item.IsAvailable); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddMenuItem inserts a menu item and returns its id.
func (s *Store) AddMenuItem(name, category string, price float64, description string, available bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"INSERT INTO menu_items (name, category, price, description, is_available) VALUES (?, ?, ?, ?, ?)",
		name, category, price, description, available,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add menu item: %w", err)
	}
	return res.LastInsertId()
}
