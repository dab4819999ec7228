// Package memory persists per-customer facts across conversations and renders
// them as context for classification and composition. Memory is strictly
// best-effort: no turn may fail or block because a memory operation did.
package memory

import (
	"context"
	"fmt"
	"strings"

	"maitred/internal/logging"
	"maitred/internal/store"
	"maitred/internal/types"
)

// NoHistory is the sentinel summary for customers with no stored facts.
// Downstream prompts treat it as "no constraints", not as an error.
const NoHistory = "no previous history"

// friendlyLabels renders known memory keys as readable phrases.
var friendlyLabels = map[string]string{
	types.MemLastOrderID:         "Last order",
	types.MemRecentItems:         "Recently ordered",
	types.MemFavoriteItems:       "Favorite items",
	types.MemLastReservationID:   "Last reservation",
	types.MemUsualPartySize:      "Usual party size",
	types.MemLastReservationTime: "Last reservation time",
	types.MemRecentMenuSearches:  "Recent menu searches",
	types.MemDietaryRestrictions: "Dietary restrictions",
	types.MemAllergies:           "Allergies",
}

// Store is the slice of the record store the memory service needs.
type Store interface {
	SetPreference(customerID int64, key, value string) error
	GetAllPreferences(customerID int64) ([]store.Preference, error)
	LookupCustomer(query string) (*types.Customer, error)
}

// Service reads and writes durable customer facts.
type Service struct {
	store                 Store
	disableNameResolution bool
}

// NewService creates a memory service over the given store.
func NewService(s Store) *Service {
	return &Service{store: s}
}

// DisableNameResolution turns off the "for <Name>" heuristic.
func (s *Service) DisableNameResolution() {
	s.disableNameResolution = true
}

// Upsert writes one fact with last-write-wins semantics.
func (s *Service) Upsert(ctx context.Context, customerID int64, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.SetPreference(customerID, key, value); err != nil {
		return fmt.Errorf("memory upsert: %w", err)
	}
	logging.Memory("upsert: customer=%d key=%s", customerID, key)
	return nil
}

// GetAll returns every fact for a customer ordered by key.
func (s *Service) GetAll(ctx context.Context, customerID int64) ([]store.Preference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefs, err := s.store.GetAllPreferences(customerID)
	if err != nil {
		return nil, fmt.Errorf("memory getAll: %w", err)
	}
	return prefs, nil
}

// Summarize renders a customer's facts as a human-readable context block.
// Returns the NoHistory sentinel when no records exist.
func (s *Service) Summarize(ctx context.Context, customerID int64) (string, error) {
	prefs, err := s.GetAll(ctx, customerID)
	if err != nil {
		return "", err
	}
	if len(prefs) == 0 {
		return NoHistory, nil
	}

	var b strings.Builder
	for _, p := range prefs {
		label, ok := friendlyLabels[p.Key]
		if !ok {
			label = p.Key
		}
		fmt.Fprintf(&b, "%s: %s\n", label, p.Value)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// RememberTurn derives facts from a completed specialist result and persists
// them. Failures are logged and swallowed.
func (s *Service) RememberTurn(ctx context.Context, customerID int64, route types.RouteTag, result types.SpecialistResult) {
	write := func(key, value string) {
		if value == "" {
			return
		}
		if err := s.Upsert(ctx, customerID, key, value); err != nil {
			logging.Get(logging.CategoryMemory).Warn("skipping fact %s for customer %d: %v", key, customerID, err)
		}
	}

	switch route {
	case types.RouteOrder:
		if result.Order == nil || result.Order.OrderID == 0 {
			return
		}
		write(types.MemLastOrderID, fmt.Sprintf("%d", result.Order.OrderID))
		names := make([]string, 0, len(result.Order.Items))
		for _, line := range result.Order.Items {
			names = append(names, line.Name)
		}
		write(types.MemRecentItems, strings.Join(names, ", "))
	case types.RouteReservation:
		if result.Reservation == nil || result.Reservation.ReservationID == 0 {
			return
		}
		write(types.MemLastReservationID, fmt.Sprintf("%d", result.Reservation.ReservationID))
		if result.Reservation.PartySize > 0 {
			write(types.MemUsualPartySize, fmt.Sprintf("%d", result.Reservation.PartySize))
		}
		write(types.MemLastReservationTime, result.Reservation.DateTime)
	case types.RouteMenu:
		if result.Menu == nil || len(result.Menu.Items) == 0 {
			return
		}
		write(types.MemRecentMenuSearches, strings.Join(result.Menu.Items, ", "))
	}
}
