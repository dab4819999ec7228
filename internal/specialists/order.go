package specialists

import (
	"context"
	"errors"
	"fmt"

	"maitred/internal/dispatch"
	"maitred/internal/logging"
	"maitred/internal/store"
	"maitred/internal/types"
)

// OrderStore is the slice of the record store the order specialist needs.
type OrderStore interface {
	LookupCustomer(query string) (*types.Customer, error)
	GetCustomer(id int64) (*types.Customer, error)
	FindMenuItem(name string) (*store.MenuItem, error)
	CreateOrder(customerID int64, lines []types.OrderLine) (*types.OrderResult, error)
}

// Order creates orders in the database and returns the order id.
type Order struct {
	store OrderStore
}

// NewOrder creates the order specialist.
func NewOrder(s OrderStore) *Order {
	return &Order{store: s}
}

// Handle resolves the customer, matches requested items against the menu, and
// creates the order. A message without a resolvable customer yields status
// "awaiting_details" rather than an error; a message with no parseable items
// is uninterpretable and not worth retrying.
func (o *Order) Handle(ctx context.Context, message string, turnCtx types.TurnContext) (types.SpecialistResult, error) {
	if err := ctx.Err(); err != nil {
		return types.SpecialistResult{}, err
	}

	requested := parseOrderItems(message)
	if len(requested) == 0 {
		return types.SpecialistResult{}, fmt.Errorf("no order items in %q: %w", message, dispatch.ErrBadOutput)
	}

	customer, err := o.resolveCustomer(message, turnCtx)
	if err != nil {
		if errors.Is(err, store.ErrCustomerNotFound) || errors.Is(err, store.ErrAmbiguousCustomer) {
			logging.Dispatch("order specialist: customer unresolved, awaiting details")
			return types.SpecialistResult{Order: &types.OrderResult{
				Status: "awaiting_details",
				Items:  []types.OrderLine{},
			}}, nil
		}
		return types.SpecialistResult{}, fmt.Errorf("order customer lookup: %w", err)
	}

	lines := make([]types.OrderLine, 0, len(requested))
	for _, req := range requested {
		item, err := o.store.FindMenuItem(req.Name)
		if err != nil {
			// An item we don't sell is a fact about the request, not a
			// transient fault.
			return types.SpecialistResult{}, fmt.Errorf("unknown menu item %q: %w", req.Name, dispatch.ErrBadOutput)
		}
		lines = append(lines, types.OrderLine{
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  req.Quantity,
		})
	}

	result, err := o.store.CreateOrder(customer.ID, lines)
	if err != nil {
		return types.SpecialistResult{}, fmt.Errorf("order create: %w", err)
	}

	logging.Dispatch("order specialist: created order %d for customer %d total=%.2f", result.OrderID, customer.ID, result.Total)
	return types.SpecialistResult{Order: result}, nil
}

// resolveCustomer prefers the turn's already-resolved customer id, then the
// "for <Name>" reference in the canonical message.
func (o *Order) resolveCustomer(message string, turnCtx types.TurnContext) (*types.Customer, error) {
	if turnCtx.CustomerID != nil {
		return o.store.GetCustomer(*turnCtx.CustomerID)
	}
	name := parseCustomerName(message)
	if name == "" {
		return nil, store.ErrCustomerNotFound
	}
	return o.store.LookupCustomer(name)
}
