// Package orchestrator runs the per-turn pipeline: classify, slot-fill,
// route, dispatch, remember, compose. A turn never returns an error to the
// caller; every failure along the way degrades into a usable reply.
package orchestrator

import (
	"context"

	"maitred/internal/compose"
	"maitred/internal/dispatch"
	"maitred/internal/logging"
	"maitred/internal/memory"
	"maitred/internal/nlu"
	"maitred/internal/router"
	"maitred/internal/session"
	"maitred/internal/slots"
	"maitred/internal/types"
)

// TurnStore persists the per-session transcript. Nil disables persistence.
type TurnStore interface {
	StoreSessionTurn(sessionID string, turnNumber int, userInput, intent, response string) error
}

// Orchestrator wires the turn pipeline together.
type Orchestrator struct {
	sessions   *session.Manager
	classifier *nlu.Classifier
	slots      *slots.Engine
	dispatcher *dispatch.Dispatcher
	memory     *memory.Service
	composer   *compose.Composer
	turns      TurnStore
}

// New assembles an orchestrator from its components.
func New(
	sessions *session.Manager,
	classifier *nlu.Classifier,
	engine *slots.Engine,
	dispatcher *dispatch.Dispatcher,
	mem *memory.Service,
	composer *compose.Composer,
	turns TurnStore,
) *Orchestrator {
	return &Orchestrator{
		sessions:   sessions,
		classifier: classifier,
		slots:      engine,
		dispatcher: dispatcher,
		memory:     mem,
		composer:   composer,
		turns:      turns,
	}
}

// Sessions exposes the session manager for callers that reset or inspect.
func (o *Orchestrator) Sessions() *session.Manager {
	return o.sessions
}

// SessionInfo is a point-in-time snapshot of a session for debug output.
type SessionInfo struct {
	SessionID  string
	Status     types.SessionStatus
	Turns      int
	Slots      map[string]string
	CustomerID *int64
}

// SessionInfo snapshots a session under its turn lock.
func (o *Orchestrator) SessionInfo(sessionID string) SessionInfo {
	var info SessionInfo
	_ = o.sessions.WithSession(sessionID, func(s *types.ConversationSession) error {
		info = SessionInfo{
			SessionID:  s.SessionID,
			Status:     s.Status,
			Turns:      len(s.TurnHistory),
			Slots:      make(map[string]string, len(s.CollectedSlots)),
			CustomerID: s.CustomerID,
		}
		for k, v := range s.CollectedSlots {
			info.Slots[k] = v
		}
		return nil
	})
	return info
}

// HandleTurn processes one inbound customer message for the given session and
// returns the reply. Turns against the same session serialize; turns against
// different sessions run concurrently.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, message string) types.FinalResponse {
	timer := logging.StartTimer(logging.CategorySession, "turn")
	defer timer.Stop()

	var response types.FinalResponse
	sessionID = o.sessions.GetOrCreate(sessionID).SessionID
	_ = o.sessions.WithSession(sessionID, func(s *types.ConversationSession) error {
		response = o.runTurn(ctx, s, message)
		return nil
	})
	return response
}

func (o *Orchestrator) runTurn(ctx context.Context, s *types.ConversationSession, message string) types.FinalResponse {
	// Best-effort identity, before classification so memory can inform it.
	o.memory.ResolveCustomer(ctx, s, message)

	summary := memory.NoHistory
	if s.CustomerID != nil {
		if got, err := o.memory.Summarize(ctx, *s.CustomerID); err == nil {
			summary = got
		}
	}

	// Classification degrades internally; the escalation flag is all the
	// router needs from it even on failure.
	classification, err := o.classifier.Classify(ctx, message, summary)
	if err != nil {
		logging.Session("session=%s classification degraded", s.SessionID)
	}

	outcome, err := o.slots.Ingest(ctx, s, message)
	if err != nil {
		// Ingest degrades internally; this branch is unreachable today but
		// keeps the turn alive if that changes.
		outcome = slots.Outcome{Clarification: &slots.Clarification{
			Intent:   "other",
			Question: "I'm sorry, I'm having trouble understanding. Could you please rephrase your request?",
		}}
	}

	if outcome.Clarification != nil && classification.RequiresEscalation {
		// An explicit escalation signal outranks the clarification loop; the
		// raw message goes straight to the escalation handler.
		logging.Session("session=%s escalation preempts clarification", s.SessionID)
		outcome = slots.Outcome{Ready: &slots.ReadyTask{
			Intent:           classification.Intent,
			CanonicalMessage: message,
		}}
	}

	var response types.FinalResponse
	var intent string

	if outcome.Clarification != nil {
		intent = outcome.Clarification.Intent
		response = types.FinalResponse{
			Summary: "gathering details",
			Text:    outcome.Clarification.Question,
		}
	} else {
		intent = outcome.Ready.Intent
		// The slot engine's intent reflects the full gathered exchange, so it
		// overrides the single-message classification for routing.
		route := router.Route(types.Classification{
			Intent:             intent,
			RequiresEscalation: classification.RequiresEscalation,
			Confidence:         classification.Confidence,
		})

		turnCtx := types.TurnContext{
			CustomerID:    s.CustomerID,
			MemorySummary: summary,
			Intent:        intent,
			Confidence:    classification.Confidence,
		}

		// Dispatching consumes the gathered slots; whatever was collected for
		// this task must not leak into the next one.
		s.Status = types.StatusDispatched
		s.CollectedSlots = make(map[string]string)
		result := o.dispatcher.Dispatch(ctx, route, outcome.Ready.CanonicalMessage, turnCtx)

		if s.CustomerID != nil {
			o.memory.RememberTurn(ctx, *s.CustomerID, route, result)
		}

		response = o.composer.Compose(ctx, message, result)
		s.Status = types.StatusGathering
	}

	turnNumber := userTurnCount(s) + 1
	s.AppendTurn(types.RoleUser, message)
	s.AppendTurn(types.RoleAssistant, response.Text)

	if o.turns != nil {
		if err := o.turns.StoreSessionTurn(s.SessionID, turnNumber, message, intent, response.Text); err != nil {
			logging.Get(logging.CategorySession).Warn("session=%s turn persist failed: %v", s.SessionID, err)
		}
	}

	return response
}

func userTurnCount(s *types.ConversationSession) int {
	n := 0
	for _, t := range s.TurnHistory {
		if t.Role == types.RoleUser {
			n++
		}
	}
	return n
}
