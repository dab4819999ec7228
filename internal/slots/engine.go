// Package slots implements the clarification loop: it accumulates task
// details across turns and decides, per turn, whether the session is ready to
// dispatch or needs another question.
package slots

import (
	"context"
	"strings"

	"maitred/internal/logging"
	"maitred/internal/nlu"
	"maitred/internal/types"
)

// Extractor is the NLU capability the engine consumes.
type Extractor interface {
	Analyze(ctx context.Context, history []types.TurnMessage, latestMessage string) (nlu.Analysis, error)
}

// Outcome is either a clarifying question or a ready task; exactly one of
// Clarification and Ready is non-nil.
type Outcome struct {
	Clarification *Clarification
	Ready         *ReadyTask
}

// Clarification asks the customer for the still-missing details.
type Clarification struct {
	Intent   string
	Missing  []string
	Question string
}

// ReadyTask carries the canonical message for the specialist.
type ReadyTask struct {
	Intent           string
	CanonicalMessage string
}

// apologyQuestion is returned when extraction itself fails. Previously
// accumulated slots are retained.
const apologyQuestion = "I'm sorry, I'm having trouble understanding. Could you please rephrase your request?"

// Engine merges extracted fields into session slots and applies the slot
// schema.
type Engine struct {
	extractor Extractor
}

// NewEngine creates a slot-filling engine over the given extractor.
func NewEngine(extractor Extractor) *Engine {
	return &Engine{extractor: extractor}
}

// Ingest processes one inbound message against the session's accumulated
// slots. It mutates the session (slot merge, status transition); the caller
// must hold the session's turn lock.
func (e *Engine) Ingest(ctx context.Context, session *types.ConversationSession, rawMessage string) (Outcome, error) {
	analysis, err := e.extractor.Analyze(ctx, session.TurnHistory, rawMessage)
	if err != nil {
		// Extraction failed: prior slots stay intact, the customer gets a
		// retry prompt, and the turn degrades to intent "other".
		logging.Get(logging.CategorySlots).Warn("extraction failed for session %s: %v", session.SessionID, err)
		return Outcome{Clarification: &Clarification{
			Intent:   "other",
			Question: apologyQuestion,
		}}, nil
	}

	// Merge newly extracted fields; newest value for a key wins.
	merged := 0
	for k, v := range analysis.CollectedInfo {
		if v == "" {
			continue
		}
		session.CollectedSlots[k] = v
		merged++
	}
	if merged > 0 {
		session.Version++
	}

	intent := analysis.Intent
	logging.Slots("session=%s intent=%s merged=%d slots=%d", session.SessionID, intent, merged, len(session.CollectedSlots))

	if types.ZeroRequirement(intent) {
		// Simple intents dispatch with the raw message verbatim. Any slots
		// gathered for an earlier, abandoned task are dropped with it.
		session.Status = types.StatusReady
		session.CollectedSlots = make(map[string]string)
		return Outcome{Ready: &ReadyTask{Intent: intent, CanonicalMessage: rawMessage}}, nil
	}

	missing := missingSlots(intent, session.CollectedSlots)
	if len(missing) > 0 {
		question := clarifyingQuestion(intent, missing)
		if question == "" {
			question = analysis.ClarificationQuestion
		}
		if question == "" {
			question = "Could you share a bit more detail?"
		}
		logging.SlotsDebug("session=%s missing=%v", session.SessionID, missing)
		return Outcome{Clarification: &Clarification{
			Intent:   intent,
			Missing:  missing,
			Question: question,
		}}, nil
	}

	canonical := canonicalMessage(intent, session.CollectedSlots)
	if canonical == "" {
		canonical = rawMessage
	}

	session.Status = types.StatusReady
	session.CollectedSlots = make(map[string]string)
	logging.Slots("session=%s ready: %q", session.SessionID, canonical)
	return Outcome{Ready: &ReadyTask{Intent: intent, CanonicalMessage: canonical}}, nil
}

// missingSlots returns the required slots without a non-empty value, in
// schema order.
func missingSlots(intent string, collected map[string]string) []string {
	var missing []string
	for _, field := range types.RequiredSlots(intent) {
		if strings.TrimSpace(collected[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// canonicalMessage assembles the deterministic task message from collected
// slots using fixed per-intent templates. Assembly follows schema order, not
// map iteration order.
func canonicalMessage(intent string, collected map[string]string) string {
	var parts []string

	if items := collected[types.SlotItems]; items != "" {
		parts = append(parts, "I want to order "+items)
	}
	if name := collected[types.SlotCustomerName]; name != "" {
		parts = append(parts, "for "+name)
	}
	if size := collected[types.SlotPartySize]; size != "" {
		parts = append(parts, "for "+size+" people")
	}
	if dt := collected[types.SlotDateTime]; dt != "" {
		parts = append(parts, "at "+dt)
	}

	return strings.Join(parts, " ")
}

// friendlyNames maps slot names to the phrases used in clarifying questions.
var friendlyNames = map[string]string{
	types.SlotCustomerName: "your name",
	types.SlotItems:        "what you'd like to order",
	types.SlotPartySize:    "how many guests",
	types.SlotDateTime:     "the date and time",
}

// clarifyingQuestion builds a natural question for the missing fields.
func clarifyingQuestion(intent string, missing []string) string {
	if len(missing) == 0 {
		return ""
	}

	parts := make([]string, 0, len(missing))
	for _, field := range missing {
		if name, ok := friendlyNames[field]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, strings.ReplaceAll(field, "_", " "))
		}
	}

	var prefix string
	switch intent {
	case "reservation_request":
		prefix = "To lock in your reservation"
	case "order_request":
		prefix = "To place your order"
	default:
		prefix = "To help you"
	}

	var request string
	if len(parts) == 1 {
		request = parts[0]
	} else {
		request = strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}

	return prefix + ", could you share " + request + ", please?"
}
