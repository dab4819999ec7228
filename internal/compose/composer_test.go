package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maitred/internal/types"
)

type fakeGenerator struct {
	response  types.FinalResponse
	err       error
	lastBrief string
}

func (g *fakeGenerator) Compose(ctx context.Context, message, brief string) (types.FinalResponse, error) {
	g.lastBrief = brief
	return g.response, g.err
}

func TestCompose_FinalTextPassesThrough(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("must not be called")}
	c := NewComposer(gen)

	result := c.Compose(context.Background(), "my soup was cold", types.SpecialistResult{
		Final: &types.FinalText{Summary: "escalated", Text: "We're so sorry. A manager will call you."},
	})

	assert.Equal(t, "escalated", result.Summary)
	assert.Equal(t, "We're so sorry. A manager will call you.", result.Text)
	// The generator is bypassed entirely for final text.
	assert.Empty(t, gen.lastBrief)
}

func TestCompose_OrderBriefIncludesLinesAndTotal(t *testing.T) {
	gen := &fakeGenerator{response: types.FinalResponse{Summary: "order placed", Text: "Your order is in!"}}
	c := NewComposer(gen)

	result := c.Compose(context.Background(), "order wings", types.SpecialistResult{
		Order: &types.OrderResult{
			OrderID: 7,
			Items: []types.OrderLine{
				{Name: "Korean BBQ Chicken Wings", UnitPrice: 13.99, Quantity: 2},
			},
			Total:  27.98,
			Status: "confirmed",
		},
	})

	assert.Equal(t, "Your order is in!", result.Text)
	assert.Contains(t, gen.lastBrief, "Order status: confirmed")
	assert.Contains(t, gen.lastBrief, "Order id: 7")
	assert.Contains(t, gen.lastBrief, "2x Korean BBQ Chicken Wings @ $13.99")
	assert.Contains(t, gen.lastBrief, "Total: $27.98")
}

func TestCompose_MenuBriefListsItemsWithPrices(t *testing.T) {
	gen := &fakeGenerator{response: types.FinalResponse{Summary: "menu shared", Text: "Here's what we have."}}
	c := NewComposer(gen)

	c.Compose(context.Background(), "desserts?", types.SpecialistResult{
		Menu: &types.MenuResult{
			Items:  []string{"Tiramisu", "Chocolate Lava Cake"},
			Prices: []float64{9.49, 10.99},
		},
	})

	assert.Contains(t, gen.lastBrief, "Menu matches (2)")
	assert.Contains(t, gen.lastBrief, "Tiramisu: $9.49")
	assert.Contains(t, gen.lastBrief, "Chocolate Lava Cake: $10.99")
}

func TestCompose_EmptyMenuBriefSaysNoMatches(t *testing.T) {
	gen := &fakeGenerator{response: types.FinalResponse{Summary: "menu shared", Text: "Nothing matched."}}
	c := NewComposer(gen)

	c.Compose(context.Background(), "sushi?", types.SpecialistResult{
		Menu: &types.MenuResult{Items: []string{}, Prices: []float64{}},
	})

	assert.Contains(t, gen.lastBrief, "No matching menu items found.")
}

func TestCompose_ReservationBrief(t *testing.T) {
	gen := &fakeGenerator{response: types.FinalResponse{Summary: "booked", Text: "See you Friday!"}}
	c := NewComposer(gen)

	c.Compose(context.Background(), "book a table", types.SpecialistResult{
		Reservation: &types.ReservationResult{
			ReservationID: 3,
			PartySize:     4,
			DateTime:      "2026-09-04 19:00",
			Status:        "confirmed",
		},
	})

	assert.Contains(t, gen.lastBrief, "Reservation status: confirmed")
	assert.Contains(t, gen.lastBrief, "Party size: 4")
	assert.Contains(t, gen.lastBrief, "Date/time: 2026-09-04 19:00")
}

func TestCompose_GenerationFailureDegradesToApology(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	c := NewComposer(gen)

	result := c.Compose(context.Background(), "order wings", types.SpecialistResult{
		Order: &types.OrderResult{OrderID: 7, Status: "confirmed"},
	})

	assert.NotEmpty(t, result.Text)
	assert.Equal(t, apology, result)
}

func TestCompose_EmptyGenerationDegradesToApology(t *testing.T) {
	gen := &fakeGenerator{response: types.FinalResponse{Summary: "x", Text: "   "}}
	c := NewComposer(gen)

	result := c.Compose(context.Background(), "order wings", types.SpecialistResult{
		Order: &types.OrderResult{OrderID: 7, Status: "confirmed"},
	})

	assert.Equal(t, apology, result)
}

func TestCompose_EmptyResultDegradesToApology(t *testing.T) {
	gen := &fakeGenerator{response: types.FinalResponse{Summary: "x", Text: "y"}}
	c := NewComposer(gen)

	result := c.Compose(context.Background(), "hm", types.SpecialistResult{})

	require.NotEmpty(t, result.Text)
	assert.Equal(t, apology, result)
}
