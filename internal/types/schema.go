package types

// Slot names used across the slot-filling engine and memory service.
const (
	SlotCustomerName = "customer_name"
	SlotItems        = "items"
	SlotPartySize    = "party_size"
	SlotDateTime     = "date_time"
)

// SlotSchema maps each intent to its ordered required-slot list. Every intent
// the router recognizes has an entry here, possibly empty; canonical task
// messages are assembled in this order, never in map iteration order.
var SlotSchema = map[string][]string{
	"order_request":       {SlotCustomerName, SlotItems},
	"reservation_request": {SlotCustomerName, SlotPartySize, SlotDateTime},
	"menu_inquiry":        {},
	"general_question":    {},
	"complaint":           {},
	"unclear":             {},
	"other":               {},
}

// RequiredSlots returns the required slot list for an intent. Unknown intents
// have no requirements, the same as the zero-requirement set.
func RequiredSlots(intent string) []string {
	return SlotSchema[intent]
}

// ZeroRequirement reports whether the intent dispatches with the raw message
// verbatim instead of a templated canonical message.
func ZeroRequirement(intent string) bool {
	req, ok := SlotSchema[intent]
	return !ok || len(req) == 0
}

// Memory keys persisted per customer. Known keys get friendly labels in
// summaries; anything else renders as "key: value".
const (
	MemLastOrderID         = "last_order_id"
	MemRecentItems         = "recent_items"
	MemFavoriteItems       = "favorite_items"
	MemLastReservationID   = "last_reservation_id"
	MemUsualPartySize      = "usual_party_size"
	MemLastReservationTime = "last_reservation_time"
	MemRecentMenuSearches  = "recent_menu_searches"
	MemDietaryRestrictions = "dietary_restrictions"
	MemAllergies           = "allergies"
)
