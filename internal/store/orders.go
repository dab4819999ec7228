package store

import (
	"database/sql"
	"errors"
	"fmt"

	"maitred/internal/logging"
	"maitred/internal/types"
)

// ErrOrderNotFound is returned when an order id does not exist.
var ErrOrderNotFound = errors.New("order not found")

// CreateOrder inserts an order plus its line items in one transaction and
// returns the new order with the computed total.
func (s *Store) CreateOrder(customerID int64, lines []types.OrderLine) (*types.OrderResult, error) {
	timer := logging.StartTimer(logging.CategoryStore, "CreateOrder")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(lines) == 0 {
		return nil, fmt.Errorf("order requires at least one line item")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin order tx: %w", err)
	}
	defer tx.Rollback()

	var total float64
	for _, line := range lines {
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += line.UnitPrice * float64(qty)
	}

	res, err := tx.Exec(
		"INSERT INTO orders (customer_id, total, status) VALUES (?, ?, 'confirmed')",
		customerID, total,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read order id: %w", err)
	}

	for _, line := range lines {
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		var menuItemID int64
		err := tx.QueryRow("SELECT id FROM menu_items WHERE name = ? COLLATE NOCASE LIMIT 1", line.Name).Scan(&menuItemID)
		if err != nil {
			return nil, fmt.Errorf("order line %q has no menu item: %w", line.Name, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price) VALUES (?, ?, ?, ?)",
			orderID, menuItemID, qty, line.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	logging.Store("Order created: id=%d customer=%d total=%.2f lines=%d", orderID, customerID, total, len(lines))
	return &types.OrderResult{
		OrderID: orderID,
		Items:   lines,
		Total:   total,
		Status:  "confirmed",
	}, nil
}

// GetOrder fetches an order with its line items.
func (s *Store) GetOrder(orderID int64) (*types.OrderResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result types.OrderResult
	err := s.db.QueryRow("SELECT id, total, status FROM orders WHERE id = ?", orderID).
		Scan(&result.OrderID, &result.Total, &result.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order get failed: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT m.name, oi.unit_price, oi.quantity
		 FROM order_items oi JOIN menu_items m ON m.id = oi.menu_item_id
		 WHERE oi.order_id = ?`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("order items query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line types.OrderLine
		if err := rows.Scan(&line.Name, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, fmt.Errorf("order line scan failed: %w", err)
		}
		result.Items = append(result.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order line rows failed: %w", err)
	}
	return &result, nil
}
