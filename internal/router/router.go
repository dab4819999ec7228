// Package router maps a classification to exactly one route tag. The mapping
// is total and deterministic: it is the single point deciding which
// specialist runs, so it must never raise and never depend on anything but
// its input.
package router

import (
	"strings"

	"maitred/internal/logging"
	"maitred/internal/types"
)

// synonyms normalizes the intent strings the classifier is known to emit.
var synonyms = map[string]types.RouteTag{
	"menu":                types.RouteMenu,
	"menu_inquiry":        types.RouteMenu,
	"menu_question":       types.RouteMenu,
	"order":               types.RouteOrder,
	"order_request":       types.RouteOrder,
	"order_status":        types.RouteOrder,
	"reservation":         types.RouteReservation,
	"reservation_request": types.RouteReservation,
	"booking":             types.RouteReservation,
	"book_table":          types.RouteReservation,
	"complaint":           types.RouteEscalation,
	"escalation":          types.RouteEscalation,
}

// Route selects the specialist for a classification. The escalation flag wins
// over any intent label; unrecognized or empty intents fall back.
func Route(c types.Classification) types.RouteTag {
	if c.RequiresEscalation {
		logging.Routing("route=escalation (flag) intent=%q", c.Intent)
		return types.RouteEscalation
	}

	intent := strings.TrimSpace(strings.ToLower(c.Intent))
	if tag, ok := synonyms[intent]; ok {
		logging.RoutingDebug("route=%s intent=%q", tag, c.Intent)
		return tag
	}

	// unclear, general_question, other, and anything unknown.
	logging.RoutingDebug("route=fallback intent=%q confidence=%s", c.Intent, c.Confidence)
	return types.RouteFallback
}
