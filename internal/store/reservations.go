package store

import (
	"database/sql"
	"errors"
	"fmt"

	"maitred/internal/logging"
	"maitred/internal/types"
)

// ErrReservationNotFound is returned when a reservation id does not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// CreateReservation inserts a reservation and returns the created record.
// Date and time arrive pre-normalized (YYYY-MM-DD, HH:MM) when parseable.
func (s *Store) CreateReservation(customerID int64, partySize int, date, timeOfDay, specialRequests string) (*types.ReservationResult, error) {
	timer := logging.StartTimer(logging.CategoryStore, "CreateReservation")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if partySize <= 0 {
		return nil, fmt.Errorf("party size must be positive")
	}

	res, err := s.db.Exec(
		`INSERT INTO reservations (customer_id, party_size, reservation_date, reservation_time, status, special_requests)
		 VALUES (?, ?, ?, ?, 'confirmed', ?)`,
		customerID, partySize, date, timeOfDay, specialRequests,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reservation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read reservation id: %w", err)
	}

	logging.Store("Reservation created: id=%d customer=%d party=%d at %s %s", id, customerID, partySize, date, timeOfDay)
	return &types.ReservationResult{
		ReservationID:   id,
		PartySize:       partySize,
		DateTime:        joinDateTime(date, timeOfDay),
		Status:          "confirmed",
		SpecialRequests: specialRequests,
	}, nil
}

// GetReservation fetches a reservation by id.
func (s *Store) GetReservation(id int64) (*types.ReservationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		result          types.ReservationResult
		date, timeOfDay string
	)
	err := s.db.QueryRow(
		`SELECT id, party_size, reservation_date, reservation_time, status, special_requests
		 FROM reservations WHERE id = ?`,
		id,
	).Scan(&result.ReservationID, &result.PartySize, &date, &timeOfDay, &result.Status, &result.SpecialRequests)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reservation get failed: %w", err)
	}
	result.DateTime = joinDateTime(date, timeOfDay)
	return &result, nil
}

func joinDateTime(date, timeOfDay string) string {
	switch {
	case date == "":
		return timeOfDay
	case timeOfDay == "":
		return date
	default:
		return date + " " + timeOfDay
	}
}
