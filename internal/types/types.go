// Package types holds the shared data model for the conversation core.
// Components accept these types at their boundaries so every package can be
// unit-tested against fakes without importing its neighbors.
package types

import "time"

// SessionStatus tracks where a session is in the gather/dispatch cycle.
type SessionStatus string

const (
	StatusGathering  SessionStatus = "gathering"
	StatusReady      SessionStatus = "ready"
	StatusDispatched SessionStatus = "dispatched"
)

// Role tags a turn message as customer or assistant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnMessage is one entry in a session's append-only history.
type TurnMessage struct {
	Role    Role
	Content string
	At      time.Time
}

// ConversationSession is the mutable per-conversation record. It is owned by
// the session manager; callers must hold the session's turn lock while
// mutating it.
type ConversationSession struct {
	SessionID      string
	CustomerID     *int64 // resolved lazily, nil until known
	TurnHistory    []TurnMessage
	CollectedSlots map[string]string
	Status         SessionStatus
	Version        int // bumped on every slot merge
}

// NewSession returns an empty session in the gathering state.
func NewSession(id string) *ConversationSession {
	return &ConversationSession{
		SessionID:      id,
		CollectedSlots: make(map[string]string),
		Status:         StatusGathering,
	}
}

// AppendTurn records a message in the session history.
func (s *ConversationSession) AppendTurn(role Role, content string) {
	s.TurnHistory = append(s.TurnHistory, TurnMessage{Role: role, Content: content, At: time.Now()})
}

// Confidence is the classifier's self-reported certainty.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Classification is the NLU capability's verdict for a single turn.
// Immutable once received.
type Classification struct {
	Intent             string
	RequiresEscalation bool
	Confidence         Confidence
}

// RouteTag selects which specialist capability handles a ready task.
type RouteTag string

const (
	RouteMenu        RouteTag = "menu_inquiry"
	RouteOrder       RouteTag = "order_request"
	RouteReservation RouteTag = "reservation_request"
	RouteEscalation  RouteTag = "escalation"
	RouteFallback    RouteTag = "fallback"
)

// AllRoutes lists every route tag the dispatcher must bind a capability for.
var AllRoutes = []RouteTag{RouteMenu, RouteOrder, RouteReservation, RouteEscalation, RouteFallback}

// MenuResult holds matching dishes for a menu inquiry.
type MenuResult struct {
	Items  []string
	Prices []float64
}

// OrderLine is one ordered item.
type OrderLine struct {
	Name      string
	UnitPrice float64
	Quantity  int
}

// OrderResult describes a created or degraded order.
type OrderResult struct {
	OrderID int64
	Items   []OrderLine
	Total   float64
	Status  string
}

// ReservationResult describes a created or degraded reservation.
type ReservationResult struct {
	ReservationID   int64
	PartySize       int
	DateTime        string
	Status          string
	SpecialRequests string
}

// FinalText is a specialist result that is already customer-facing prose
// (escalation and fallback handlers produce these).
type FinalText struct {
	Summary string
	Text    string
}

// SpecialistResult is a tagged variant; exactly one field is non-nil per turn.
type SpecialistResult struct {
	Menu        *MenuResult
	Order       *OrderResult
	Reservation *ReservationResult
	Final       *FinalText
}

// FinalResponse is the only entity returned to the caller after a turn.
type FinalResponse struct {
	Summary string
	Text    string
}

// Customer is a directory record from the customer store.
type Customer struct {
	ID    int64
	Name  string
	Phone string
	Email string
}

// TurnContext carries cross-component facts for the current turn.
type TurnContext struct {
	CustomerID    *int64
	MemorySummary string
	Intent        string
	Confidence    Confidence
}
