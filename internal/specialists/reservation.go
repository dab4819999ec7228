package specialists

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maitred/internal/dispatch"
	"maitred/internal/logging"
	"maitred/internal/store"
	"maitred/internal/types"
)

// ReservationStore is the slice of the record store the reservation
// specialist needs.
type ReservationStore interface {
	LookupCustomer(query string) (*types.Customer, error)
	GetCustomer(id int64) (*types.Customer, error)
	CreateReservation(customerID int64, partySize int, date, timeOfDay, specialRequests string) (*types.ReservationResult, error)
}

// Reservation books tables in the database and returns the reservation id.
type Reservation struct {
	store ReservationStore
	now   func() time.Time // injectable for date normalization tests
}

// NewReservation creates the reservation specialist.
func NewReservation(s ReservationStore) *Reservation {
	return &Reservation{store: s, now: time.Now}
}

// Handle resolves the customer, normalizes the requested date/time, and
// creates the reservation. Unresolvable customers yield "awaiting_details";
// a message without a party size is uninterpretable.
func (r *Reservation) Handle(ctx context.Context, message string, turnCtx types.TurnContext) (types.SpecialistResult, error) {
	if err := ctx.Err(); err != nil {
		return types.SpecialistResult{}, err
	}

	partySize := parsePartySize(message)
	if partySize <= 0 {
		return types.SpecialistResult{}, fmt.Errorf("no party size in %q: %w", message, dispatch.ErrBadOutput)
	}

	customer, err := r.resolveCustomer(message, turnCtx)
	if err != nil {
		if errors.Is(err, store.ErrCustomerNotFound) || errors.Is(err, store.ErrAmbiguousCustomer) {
			logging.Dispatch("reservation specialist: customer unresolved, awaiting details")
			return types.SpecialistResult{Reservation: &types.ReservationResult{
				PartySize: partySize,
				Status:    "awaiting_details",
			}}, nil
		}
		return types.SpecialistResult{}, fmt.Errorf("reservation customer lookup: %w", err)
	}

	date, timeOfDay := parseDateTime(message, r.now())
	result, err := r.store.CreateReservation(customer.ID, partySize, date, timeOfDay, "")
	if err != nil {
		return types.SpecialistResult{}, fmt.Errorf("reservation create: %w", err)
	}

	logging.Dispatch("reservation specialist: created reservation %d for customer %d party=%d", result.ReservationID, customer.ID, partySize)
	return types.SpecialistResult{Reservation: result}, nil
}

func (r *Reservation) resolveCustomer(message string, turnCtx types.TurnContext) (*types.Customer, error) {
	if turnCtx.CustomerID != nil {
		return r.store.GetCustomer(*turnCtx.CustomerID)
	}
	name := parseCustomerName(message)
	if name == "" {
		return nil, store.ErrCustomerNotFound
	}
	return r.store.LookupCustomer(name)
}
