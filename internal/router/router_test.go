package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"maitred/internal/types"
)

func TestRoute_KnownIntents(t *testing.T) {
	cases := []struct {
		name   string
		intent string
		want   types.RouteTag
	}{
		{"menu inquiry", "menu_inquiry", types.RouteMenu},
		{"menu shorthand", "menu", types.RouteMenu},
		{"menu question", "menu_question", types.RouteMenu},
		{"order request", "order_request", types.RouteOrder},
		{"order shorthand", "order", types.RouteOrder},
		{"order status", "order_status", types.RouteOrder},
		{"reservation request", "reservation_request", types.RouteReservation},
		{"reservation shorthand", "reservation", types.RouteReservation},
		{"booking", "booking", types.RouteReservation},
		{"book table", "book_table", types.RouteReservation},
		{"complaint", "complaint", types.RouteEscalation},
		{"escalation", "escalation", types.RouteEscalation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Route(types.Classification{Intent: tc.intent, Confidence: types.ConfidenceHigh})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRoute_Normalization(t *testing.T) {
	t.Run("case insensitive", func(t *testing.T) {
		got := Route(types.Classification{Intent: "Menu_Inquiry"})
		assert.Equal(t, types.RouteMenu, got)
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		got := Route(types.Classification{Intent: "  order_request  "})
		assert.Equal(t, types.RouteOrder, got)
	})
}

func TestRoute_EscalationFlagWins(t *testing.T) {
	// The flag overrides whatever intent the classifier produced.
	for _, intent := range []string{"menu_inquiry", "order_request", "reservation_request", "general_question", ""} {
		got := Route(types.Classification{Intent: intent, RequiresEscalation: true})
		assert.Equal(t, types.RouteEscalation, got, "intent %q", intent)
	}
}

func TestRoute_UnknownFallsBack(t *testing.T) {
	for _, intent := range []string{"", "unclear", "other", "general_question", "smalltalk", "nonsense_tag"} {
		got := Route(types.Classification{Intent: intent})
		assert.Equal(t, types.RouteFallback, got, "intent %q", intent)
	}
}

func TestRoute_IsTotal(t *testing.T) {
	// Every input maps to one of the five tags; nothing panics or escapes.
	inputs := []types.Classification{
		{},
		{Intent: "order_request", RequiresEscalation: true},
		{Intent: "\t\n"},
		{Intent: "ORDER"},
	}
	for _, c := range inputs {
		got := Route(c)
		assert.Contains(t, types.AllRoutes, got)
	}
}
