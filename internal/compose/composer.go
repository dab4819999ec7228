// Package compose merges whichever specialist result a turn produced into the
// single FinalResponse returned to the caller.
package compose

import (
	"context"
	"fmt"
	"strings"

	"maitred/internal/logging"
	"maitred/internal/nlu"
	"maitred/internal/types"
)

// Generator is the text-polishing capability the composer consumes.
type Generator interface {
	Compose(ctx context.Context, message, brief string) (types.FinalResponse, error)
}

var _ Generator = (*nlu.Generator)(nil)

// apology is the fixed degradation when generation fails. This path must not
// error.
var apology = types.FinalResponse{
	Summary: "request received",
	Text:    "I'm sorry, we're having trouble finishing your request right now. Please try again in a moment, or call us directly.",
}

// Composer builds the final customer response.
type Composer struct {
	generator Generator
}

// NewComposer creates a composer over the given generator.
func NewComposer(g Generator) *Composer {
	return &Composer{generator: g}
}

// Compose turns a specialist result into the final reply. Escalation and
// fallback results are already final text and pass through unchanged.
func (c *Composer) Compose(ctx context.Context, originalMessage string, result types.SpecialistResult) types.FinalResponse {
	if result.Final != nil {
		return types.FinalResponse{Summary: result.Final.Summary, Text: result.Final.Text}
	}

	brief := buildBrief(result)
	if brief == "" {
		logging.Get(logging.CategoryCompose).Error("empty specialist result for %q", originalMessage)
		return apology
	}

	response, err := c.generator.Compose(ctx, originalMessage, brief)
	if err != nil || strings.TrimSpace(response.Text) == "" {
		logging.Get(logging.CategoryCompose).Warn("generation failed, using apology: %v", err)
		return apology
	}

	logging.Get(logging.CategoryCompose).Debug("composed %d chars for %q", len(response.Text), originalMessage)
	return response
}

// buildBrief describes the populated result variant for the generator.
func buildBrief(result types.SpecialistResult) string {
	var b strings.Builder

	switch {
	case result.Menu != nil:
		fmt.Fprintf(&b, "Menu matches (%d):\n", len(result.Menu.Items))
		for i, name := range result.Menu.Items {
			if i < len(result.Menu.Prices) {
				fmt.Fprintf(&b, "- %s: $%.2f\n", name, result.Menu.Prices[i])
			} else {
				fmt.Fprintf(&b, "- %s\n", name)
			}
		}
		if len(result.Menu.Items) == 0 {
			b.WriteString("No matching menu items found.\n")
		}

	case result.Order != nil:
		o := result.Order
		fmt.Fprintf(&b, "Order status: %s\n", o.Status)
		if o.OrderID != 0 {
			fmt.Fprintf(&b, "Order id: %d\n", o.OrderID)
		}
		for _, line := range o.Items {
			fmt.Fprintf(&b, "- %dx %s @ $%.2f\n", line.Quantity, line.Name, line.UnitPrice)
		}
		fmt.Fprintf(&b, "Total: $%.2f\n", o.Total)

	case result.Reservation != nil:
		r := result.Reservation
		fmt.Fprintf(&b, "Reservation status: %s\n", r.Status)
		if r.ReservationID != 0 {
			fmt.Fprintf(&b, "Reservation id: %d\n", r.ReservationID)
		}
		if r.PartySize > 0 {
			fmt.Fprintf(&b, "Party size: %d\n", r.PartySize)
		}
		if r.DateTime != "" {
			fmt.Fprintf(&b, "Date/time: %s\n", r.DateTime)
		}
		if r.SpecialRequests != "" {
			fmt.Fprintf(&b, "Special requests: %s\n", r.SpecialRequests)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
